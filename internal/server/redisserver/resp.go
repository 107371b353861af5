package redisserver

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Protocol limits.
const (
	// MaxArrayLen caps the number of arguments of one command.
	MaxArrayLen = 1024

	// MaxBulkLen caps a single argument. Interned strings are words and
	// keys, not documents.
	MaxBulkLen = 512 * 1024

	// MaxInlineLen caps an inline command such as "PING\r\n".
	MaxInlineLen = 4 * 1024

	maxHeaderLen = 32
)

var (
	ErrProtocol      = errors.New("resp: protocol error")
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

var crlf = []byte("\r\n")

// ReadCommand reads one command, either a RESP array of bulk strings or an
// inline line of space separated words. A blank inline line or an empty
// array yields nil args and no error.
func ReadCommand(r *bufio.Reader) ([][]byte, error) {
	b, err := r.Peek(1)
	if err != nil {
		return nil, err
	}
	if b[0] != '*' {
		line, err := readLine(r, MaxInlineLen)
		if err != nil {
			return nil, err
		}
		return bytes.Fields(line), nil
	}

	n, err := readHeader(r, '*')
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	if n > MaxArrayLen {
		return nil, fmt.Errorf("%w: %d arguments, max %d", ErrLimitExceeded, n, MaxArrayLen)
	}

	args := make([][]byte, n)
	for i := range args {
		if args[i], err = readBulk(r); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func readBulk(r *bufio.Reader) ([]byte, error) {
	n, err := readHeader(r, '$')
	if err != nil {
		return nil, err
	}
	switch {
	case n == -1:
		return nil, nil
	case n < 0:
		return nil, fmt.Errorf("%w: bulk length %d", ErrProtocol, n)
	case n > MaxBulkLen:
		return nil, fmt.Errorf("%w: bulk length %d, max %d", ErrLimitExceeded, n, MaxBulkLen)
	}

	buf := make([]byte, n+len(crlf))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	if !bytes.HasSuffix(buf, crlf) {
		return nil, fmt.Errorf("%w: bulk not terminated by CRLF", ErrProtocol)
	}
	return buf[:n], nil
}

// readHeader reads a "<prefix><int>\r\n" line.
func readHeader(r *bufio.Reader, prefix byte) (int, error) {
	line, err := readLine(r, maxHeaderLen)
	if err != nil {
		return 0, err
	}
	if len(line) < 2 || line[0] != prefix {
		return 0, fmt.Errorf("%w: expected '%c' header, got %q", ErrProtocol, prefix, line)
	}
	n, err := strconv.Atoi(string(line[1:]))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid length %q", ErrProtocol, line[1:])
	}
	return n, nil
}

// readLine reads up to CRLF, which it strips. Lines longer than maxLen
// fail with ErrLimitExceeded before the rest is buffered.
func readLine(r *bufio.Reader, maxLen int) ([]byte, error) {
	var line []byte
	for {
		frag, err := r.ReadSlice('\n')
		line = append(line, frag...)
		if len(line) > maxLen+len(crlf) {
			return nil, fmt.Errorf("%w: line longer than %d", ErrLimitExceeded, maxLen)
		}
		if err == nil {
			break
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return nil, err
		}
	}
	if !bytes.HasSuffix(line, crlf) {
		return nil, fmt.Errorf("%w: line not terminated by CRLF", ErrProtocol)
	}
	return line[:len(line)-len(crlf)], nil
}

// Writer encodes RESP2 replies. Errors are sticky: after the first failed
// write every call is a no-op and Flush reports it.
type Writer struct {
	bw  *bufio.Writer
	err error
}

// NewWriter returns a Writer buffering into w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

func (w *Writer) write(prefix byte, s string) {
	if w.err != nil {
		return
	}
	if err := w.bw.WriteByte(prefix); err != nil {
		w.err = err
		return
	}
	if _, err := w.bw.WriteString(s); err != nil {
		w.err = err
		return
	}
	_, w.err = w.bw.Write(crlf)
}

// SimpleString writes "+s".
func (w *Writer) SimpleString(s string) { w.write('+', s) }

// Error writes "-msg". msg should start with an error kind such as "ERR".
func (w *Writer) Error(msg string) { w.write('-', msg) }

// Integer writes ":n".
func (w *Writer) Integer(n int64) { w.write(':', strconv.FormatInt(n, 10)) }

// Null writes the null bulk string.
func (w *Writer) Null() { w.write('$', "-1") }

// ArrayHeader writes "*n"; n elements must follow.
func (w *Writer) ArrayHeader(n int) { w.write('*', strconv.Itoa(n)) }

// Bulk writes s as a bulk string.
func (w *Writer) Bulk(s string) {
	w.write('$', strconv.Itoa(len(s)))
	if w.err != nil {
		return
	}
	if _, err := w.bw.WriteString(s); err != nil {
		w.err = err
		return
	}
	_, w.err = w.bw.Write(crlf)
}

// Flush writes buffered replies to the connection.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.bw.Flush()
	return w.err
}

// commandName upper cases an ASCII command name, skipping the copy for
// names already in upper case.
func commandName(b []byte) string {
	for _, c := range b {
		if 'a' <= c && c <= 'z' {
			return string(bytes.ToUpper(b))
		}
	}
	return string(b)
}

package command

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardtab/internal/cli/output"
	"github.com/yndnr/shardtab/pkg/cmap"
	"github.com/yndnr/shardtab/pkg/intern"
)

// maxWordLen bounds a single whitespace-separated token.
const maxWordLen = 1 << 20

// InternReport summarizes an intern run.
type InternReport struct {
	Files    int          `json:"files" yaml:"files"`
	Bytes    int64        `json:"bytes" yaml:"bytes"`
	Words    int64        `json:"words" yaml:"words"`
	Distinct int          `json:"distinct" yaml:"distinct"`
	Table    cmap.Summary `json:"table" yaml:"table" table:"wide"`
	Top      []WordCount  `json:"top,omitempty" yaml:"top,omitempty" table:"-"`
}

// WordCount is an interned word with its number of occurrences.
type WordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int64  `json:"count" yaml:"count"`
}

// InternCommand returns the intern command.
func InternCommand() *cli.Command {
	return &cli.Command{
		Name:      "intern",
		Usage:     "Intern every word of the given files and report the table",
		ArgsUsage: "FILE... (use - for standard input)",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "top",
				Usage: "Report the N most frequent words",
				Value: 10,
			},
		},
		Action: runIntern,
	}
}

func runIntern(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	if c.NArg() == 0 {
		return errors.New("at least one FILE is required")
	}

	table := intern.New()
	defer table.Close()

	report := &InternReport{}
	for _, name := range c.Args().Slice() {
		n, words, err := internFile(table, name, rt.Progress(), c.App.Reader)
		if err != nil {
			return err
		}
		report.Files++
		report.Bytes += n
		report.Words += words
		rt.Log.Debug("file interned", "file", name, "bytes", n, "words", words)
	}
	report.Distinct = table.Len()
	report.Table = table.Stats()
	report.Top = topWords(table, c.Int("top"))

	if err := rt.Print(report); err != nil {
		return err
	}
	if rt.Flags.Output == output.FormatTable && len(report.Top) > 0 {
		fmt.Fprintln(rt.Out)
		return rt.Print(report.Top)
	}
	return nil
}

// internFile interns the words of name, or of stdin when name is "-". It
// returns the bytes read and the number of words.
func internFile(table *intern.Table, name string, progress io.Writer, stdin io.Reader) (int64, int64, error) {
	var (
		r     io.Reader
		total int64 = -1
	)
	if name == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		r = stdin
	} else {
		f, err := os.Open(name)
		if err != nil {
			return 0, 0, err
		}
		defer f.Close()
		if info, err := f.Stat(); err == nil {
			total = info.Size()
		}
		r = f
	}

	bar := output.NewProgressBar(progress, name, total)
	counted := &countingReader{r: io.TeeReader(r, bar)}
	sc := bufio.NewScanner(counted)
	sc.Buffer(make([]byte, 64*1024), maxWordLen)
	sc.Split(bufio.ScanWords)

	var words int64
	for sc.Scan() {
		table.InternBytes(sc.Bytes())
		words++
	}
	bar.Finish()
	if err := sc.Err(); err != nil {
		return counted.n, words, fmt.Errorf("%s: %w", name, err)
	}
	return counted.n, words, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// topWords returns the n words with the most references, ties broken
// alphabetically.
func topWords(table *intern.Table, n int) []WordCount {
	if n <= 0 {
		return nil
	}
	var all []WordCount
	table.Range(func(s string, refs int64) bool {
		all = append(all, WordCount{Word: s, Count: refs})
		return true
	})
	slices.SortFunc(all, func(a, b WordCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Word, b.Word)
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

package command

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
)

// syncBuffer is a bytes.Buffer safe for a server goroutine writing logs
// while the test reads them.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// runApp runs the CLI with args, feeding stdin and capturing both streams.
func runApp(t *testing.T, ctx context.Context, stdin string, args ...string) (string, *syncBuffer, error) {
	t.Helper()
	t.Setenv("SHARDTAB_CONFIG", "")

	var stdout bytes.Buffer
	stderr := &syncBuffer{}
	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = stderr
	if ctx == nil {
		ctx = context.Background()
	}
	err := app.RunContext(ctx, append([]string{"shardtab"}, args...))
	return stdout.String(), stderr, err
}

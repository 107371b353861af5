package redisserver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/shardtab/internal/infra/ratelimit"
	"github.com/yndnr/shardtab/internal/telemetry/logger"
	"github.com/yndnr/shardtab/internal/telemetry/metric"
	"github.com/yndnr/shardtab/pkg/intern"
)

type handlerFixture struct {
	h     *CommandHandler
	table *intern.Table
	reg   *metric.Registry
}

func newHandlerFixture(limiters *ratelimit.Limiters) *handlerFixture {
	table := intern.New()
	reg := metric.NewRegistry()
	return &handlerFixture{
		h:     NewCommandHandler(table, reg, limiters, logger.Nop()),
		table: table,
		reg:   reg,
	}
}

// do runs one command and returns the raw reply.
func (f *handlerFixture) do(t *testing.T, args ...string) (string, bool) {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	raw := make([][]byte, len(args))
	for i, a := range args {
		raw[i] = []byte(a)
	}
	quit := f.h.Handle("127.0.0.1", w, raw)
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	return buf.String(), quit
}

func TestCommandHandler_Replies(t *testing.T) {
	f := newHandlerFixture(nil)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"PING"}, "+PONG\r\n"},
		{[]string{"ping", "hi"}, "$2\r\nhi\r\n"},
		{[]string{"ECHO", "x"}, "$1\r\nx\r\n"},
		{[]string{"COMMAND", "DOCS"}, "*0\r\n"},
		{[]string{"INTERN", "alpha"}, ":1\r\n"},
		{[]string{"intern", "alpha"}, ":2\r\n"},
		{[]string{"INTERN", "beta"}, ":1\r\n"},
		{[]string{"GET", "alpha"}, "$5\r\nalpha\r\n"},
		{[]string{"GET", "gamma"}, "$-1\r\n"},
		{[]string{"EXISTS", "alpha", "beta", "gamma"}, ":2\r\n"},
		{[]string{"REFS", "alpha"}, ":2\r\n"},
		{[]string{"DBSIZE"}, ":2\r\n"},
		{[]string{"RELEASE", "alpha"}, ":1\r\n"},
		{[]string{"DEL", "alpha"}, ":0\r\n"},
		{[]string{"DEL", "alpha"}, "$-1\r\n"},
		{[]string{"DBSIZE"}, ":1\r\n"},
		{[]string{"GET"}, "-ERR wrong number of arguments for 'get' command\r\n"},
		{[]string{"PING", "a", "b"}, "-ERR wrong number of arguments for 'ping' command\r\n"},
		{[]string{"FLUSHALL"}, "-ERR unknown command 'flushall'\r\n"},
	}
	for _, tt := range tests {
		got, quit := f.do(t, tt.args...)
		if got != tt.want {
			t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
		}
		if quit {
			t.Errorf("%v asked to quit", tt.args)
		}
	}

	if got := testutil.ToFloat64(f.reg.InternOps.WithLabelValues("intern", "created")); got != 2 {
		t.Errorf("intern created = %v, want 2", got)
	}
	if got := testutil.ToFloat64(f.reg.RESPCommands.WithLabelValues("GET", "error")); got != 1 {
		t.Errorf("GET errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(f.reg.RESPCommands.WithLabelValues("unknown", "error")); got != 1 {
		t.Errorf("unknown commands = %v, want 1", got)
	}
}

func TestCommandHandler_Quit(t *testing.T) {
	f := newHandlerFixture(nil)
	got, quit := f.do(t, "quit")
	if !quit || got != "+OK\r\n" {
		t.Errorf("QUIT = %q, quit=%v", got, quit)
	}
}

func TestCommandHandler_NoCommand(t *testing.T) {
	f := newHandlerFixture(nil)
	if got, _ := f.do(t); got != "-ERR no command\r\n" {
		t.Errorf("empty = %q", got)
	}
}

func TestCommandHandler_Info(t *testing.T) {
	f := newHandlerFixture(nil)
	f.table.Intern("x")

	got, _ := f.do(t, "INFO")
	for _, want := range []string{"# Server", "shardtab_version:", "# Table", "entries:1\r\n", "shards:4096\r\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("INFO missing %q in %q", want, got)
		}
	}
}

func TestCommandHandler_RateLimit(t *testing.T) {
	f := newHandlerFixture(ratelimit.New(0.001, 1))

	if got, _ := f.do(t, "PING"); got != "+PONG\r\n" {
		t.Fatalf("first PING = %q", got)
	}
	if got, _ := f.do(t, "PING"); got != "-ERR rate limit exceeded\r\n" {
		t.Errorf("second PING = %q, want rate limit error", got)
	}
	if _, quit := f.do(t, "QUIT"); !quit {
		t.Error("QUIT must bypass the rate limit")
	}
	if got := testutil.ToFloat64(f.reg.RESPCommands.WithLabelValues("PING", "rate_limited")); got != 1 {
		t.Errorf("rate_limited = %v, want 1", got)
	}
}

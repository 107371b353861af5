package redisserver

import (
	"fmt"
	"strings"
	"time"

	"github.com/yndnr/shardtab/internal/infra/buildinfo"
	"github.com/yndnr/shardtab/internal/infra/ratelimit"
	"github.com/yndnr/shardtab/internal/telemetry/logger"
	"github.com/yndnr/shardtab/internal/telemetry/metric"
	"github.com/yndnr/shardtab/pkg/intern"
)

// command is one entry of the dispatch table. arity counts the command name
// itself; a negative arity means at least -arity arguments.
type command struct {
	arity int
	run   func(h *CommandHandler, w *Writer, args [][]byte) string
}

var commands = map[string]command{
	"PING":    {-1, (*CommandHandler).ping},
	"ECHO":    {2, (*CommandHandler).echo},
	"COMMAND": {-1, (*CommandHandler).command},
	"INTERN":  {2, (*CommandHandler).intern},
	"GET":     {2, (*CommandHandler).get},
	"EXISTS":  {-2, (*CommandHandler).exists},
	"REFS":    {2, (*CommandHandler).refs},
	"RELEASE": {2, (*CommandHandler).release},
	"DEL":     {2, (*CommandHandler).release},
	"DBSIZE":  {1, (*CommandHandler).dbsize},
	"INFO":    {-1, (*CommandHandler).info},
}

// CommandHandler executes commands against an intern table.
type CommandHandler struct {
	table    *intern.Table
	metrics  *metric.Registry
	limiters *ratelimit.Limiters
	log      logger.Logger
	started  time.Time
}

// NewCommandHandler creates a handler. reg and limiters may be nil.
func NewCommandHandler(table *intern.Table, reg *metric.Registry, limiters *ratelimit.Limiters, log logger.Logger) *CommandHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CommandHandler{
		table:    table,
		metrics:  reg,
		limiters: limiters,
		log:      log,
		started:  time.Now(),
	}
}

// Handle executes args, a command name followed by its arguments, and
// writes the reply to w. It reports whether the client asked to close the
// connection. client keys the rate limiter.
func (h *CommandHandler) Handle(client string, w *Writer, args [][]byte) (quit bool) {
	if len(args) == 0 {
		w.Error("ERR no command")
		return false
	}

	name := commandName(args[0])
	if name == "QUIT" {
		w.SimpleString("OK")
		return true
	}
	if h.limiters != nil && !h.limiters.Allow(client) {
		h.observe(name, "rate_limited")
		w.Error("ERR rate limit exceeded")
		return false
	}

	cmd, ok := commands[name]
	if !ok {
		h.observe("unknown", "error")
		w.Error(fmt.Sprintf("ERR unknown command '%s'", strings.ToLower(name)))
		return false
	}
	if (cmd.arity > 0 && len(args) != cmd.arity) || (cmd.arity < 0 && len(args) < -cmd.arity) {
		h.observe(name, "error")
		w.Error(fmt.Sprintf("ERR wrong number of arguments for '%s' command", strings.ToLower(name)))
		return false
	}

	h.observe(name, cmd.run(h, w, args))
	return false
}

func (h *CommandHandler) observe(name, result string) {
	if h.metrics != nil {
		h.metrics.RESPCommands.WithLabelValues(name, result).Inc()
	}
}

func (h *CommandHandler) count(op, result string) {
	if h.metrics != nil {
		h.metrics.InternOps.WithLabelValues(op, result).Inc()
	}
}

func (h *CommandHandler) ping(w *Writer, args [][]byte) string {
	switch len(args) {
	case 1:
		w.SimpleString("PONG")
	case 2:
		w.Bulk(string(args[1]))
	default:
		w.Error("ERR wrong number of arguments for 'ping' command")
		return "error"
	}
	return "ok"
}

func (h *CommandHandler) echo(w *Writer, args [][]byte) string {
	w.Bulk(string(args[1]))
	return "ok"
}

// command answers the COMMAND introspection redis-cli sends on connect
// with an empty list.
func (h *CommandHandler) command(w *Writer, _ [][]byte) string {
	w.ArrayHeader(0)
	return "ok"
}

// intern replies with the reference count after taking one.
func (h *CommandHandler) intern(w *Writer, args [][]byte) string {
	_, refs := h.table.AcquireBytes(args[1])
	result := "existing"
	if refs == 1 {
		result = "created"
	}
	h.count("intern", result)
	w.Integer(refs)
	return "ok"
}

func (h *CommandHandler) get(w *Writer, args [][]byte) string {
	s, ok := h.table.LookupBytes(args[1])
	if !ok {
		h.count("lookup", "miss")
		w.Null()
		return "ok"
	}
	h.count("lookup", "hit")
	w.Bulk(s)
	return "ok"
}

func (h *CommandHandler) exists(w *Writer, args [][]byte) string {
	var n int64
	for _, arg := range args[1:] {
		if _, ok := h.table.LookupBytes(arg); ok {
			n++
		}
	}
	w.Integer(n)
	return "ok"
}

func (h *CommandHandler) refs(w *Writer, args [][]byte) string {
	w.Integer(h.table.Refs(string(args[1])))
	return "ok"
}

// release replies with the references left, or null when the string was
// not interned.
func (h *CommandHandler) release(w *Writer, args [][]byte) string {
	left, ok := h.table.Drop(string(args[1]))
	if !ok {
		h.count("release", "miss")
		w.Null()
		return "ok"
	}
	h.count("release", "hit")
	w.Integer(left)
	return "ok"
}

func (h *CommandHandler) dbsize(w *Writer, _ [][]byte) string {
	w.Integer(int64(h.table.Len()))
	return "ok"
}

// info replies with INFO-style "key:value" lines in a server and a table
// section.
func (h *CommandHandler) info(w *Writer, _ [][]byte) string {
	s := h.table.Stats()
	var b strings.Builder
	fmt.Fprintf(&b, "# Server\r\n")
	fmt.Fprintf(&b, "shardtab_version:%s\r\n", buildinfo.Get().Version)
	fmt.Fprintf(&b, "uptime_in_seconds:%d\r\n", int64(time.Since(h.started).Seconds()))
	fmt.Fprintf(&b, "\r\n# Table\r\n")
	fmt.Fprintf(&b, "entries:%d\r\n", s.Entries)
	fmt.Fprintf(&b, "shards:%d\r\n", s.Shards)
	fmt.Fprintf(&b, "non_empty_shards:%d\r\n", s.NonEmpty)
	fmt.Fprintf(&b, "capacity:%d\r\n", s.Capacity)
	fmt.Fprintf(&b, "max_shard_size:%d\r\n", s.MaxSize)
	fmt.Fprintf(&b, "rehashes:%d\r\n", s.Rehashes)
	fmt.Fprintf(&b, "load_factor:%.4f\r\n", s.LoadFactor)
	w.Bulk(b.String())
	return "ok"
}

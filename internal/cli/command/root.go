package command

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardtab/internal/cli/output"
	"github.com/yndnr/shardtab/internal/infra/buildinfo"
	"github.com/yndnr/shardtab/internal/server/config"
	"github.com/yndnr/shardtab/internal/telemetry/logger"
)

const runtimeKey = "runtime"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "shardtab",
		Usage:   "Sharded concurrent hash table toolkit",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			BenchCommand(),
			InternCommand(),
			ServeCommand(),
			VersionCommand(),
		},
		Before: setup,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"SHARDTAB_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Suppress progress output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config   string
	LogLevel string

	// Output format
	Output output.Format
	Wide   bool

	Quiet bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}
	return &GlobalFlags{
		Config:   c.String("config"),
		LogLevel: c.String("log-level"),
		Output:   format,
		Wide:     c.Bool("wide"),
		Quiet:    c.Bool("quiet"),
	}, nil
}

// Runtime is the state every command shares once the global flags are
// applied.
type Runtime struct {
	Flags     *GlobalFlags
	Config    *config.Config
	Log       logger.Logger
	Formatter output.Formatter

	Out io.Writer
	Err io.Writer
}

// Print writes data with the selected output format.
func (rt *Runtime) Print(data any) error {
	return rt.Formatter.Format(rt.Out, data)
}

// Progress returns where progress indicators draw, io.Discard when quiet.
func (rt *Runtime) Progress() io.Writer {
	if rt.Flags.Quiet {
		return io.Discard
	}
	return rt.Err
}

// overrides turns the command line flags that shadow configuration keys
// into loader overrides.
func (f *GlobalFlags) overrides() map[string]any {
	o := make(map[string]any)
	if f.LogLevel != "" {
		o["log.level"] = f.LogLevel
	}
	return o
}

func setup(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	cfg, err := config.Load(flags.Config, flags.overrides())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(config.ToLoggerConfig(cfg, c.App.ErrWriter))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	c.App.Metadata[runtimeKey] = &Runtime{
		Flags:     flags,
		Config:    cfg,
		Log:       log,
		Formatter: output.NewFormatter(flags.Output, flags.Wide),
		Out:       c.App.Writer,
		Err:       c.App.ErrWriter,
	}
	return nil
}

var errNoRuntime = errors.New("command runtime not initialized")

// GetRuntime retrieves the shared runtime from context.
func GetRuntime(c *cli.Context) (*Runtime, error) {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return rt, nil
	}
	return nil, errNoRuntime
}

// PrintError prints an error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}

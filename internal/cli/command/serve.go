package command

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardtab/internal/infra/confloader"
	"github.com/yndnr/shardtab/internal/infra/shutdown"
	"github.com/yndnr/shardtab/internal/server/config"
	"github.com/yndnr/shardtab/internal/server/httpserver"
	"github.com/yndnr/shardtab/internal/server/redisserver"
	"github.com/yndnr/shardtab/internal/telemetry/logger"
	"github.com/yndnr/shardtab/internal/telemetry/metric"
	"github.com/yndnr/shardtab/pkg/intern"
)

// ServeCommand returns the serve command.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve an intern table over HTTP and, optionally, RESP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides server.addr",
			},
			&cli.StringFlag{
				Name:  "resp-addr",
				Usage: "Enable the RESP listener on this address, overrides redis.addr",
			},
			&cli.BoolFlag{
				Name:  "no-watch",
				Usage: "Do not reload the log level when the config file changes",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	cfg := *rt.Config
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}
	if c.IsSet("resp-addr") {
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = c.String("resp-addr")
	}
	log := rt.Log.With("component", "serve")

	table := intern.New()
	reg := metric.NewRegistry()
	if err := reg.Register(metric.NewCollector("intern", table.Stats)); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}

	httpCfg, err := config.ToHTTPConfig(&cfg)
	if err != nil {
		return err
	}
	srv := httpserver.New(httpCfg, httpserver.NewRouter(config.ToRouterConfig(&cfg, table, reg, rt.Log)))
	ln, err := net.Listen("tcp", httpCfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", httpCfg.Addr, err)
	}

	ctx, cancel := context.WithCancelCause(c.Context)
	defer cancel(nil)

	// Hooks run in reverse: stop accepting requests before dropping the table.
	h := shutdown.NewHandler(cfg.Server.ShutdownTimeout, log)
	h.OnShutdown("intern-table", func(context.Context) error {
		table.Close()
		return nil
	})
	h.OnShutdown("http", srv.Shutdown)

	if cfg.Redis.Enabled {
		respLn, err := net.Listen("tcp", cfg.Redis.Addr)
		if err != nil {
			ln.Close()
			return fmt.Errorf("listen %s: %w", cfg.Redis.Addr, err)
		}
		resp := redisserver.New(config.ToRedisConfig(&cfg), table, reg, rt.Log.With("component", "resp"))
		h.OnShutdown("resp", resp.Shutdown)
		go func() {
			if err := resp.Serve(respLn); err != nil {
				cancel(fmt.Errorf("resp: %w", err))
			}
		}()
		log.Info("resp server listening", "addr", respLn.Addr().String())
	}

	if path := rt.Flags.Config; path != "" && !c.Bool("no-watch") {
		w, err := watchConfig(path, rt.Flags.overrides(), log)
		if err != nil {
			log.Warn("config watch disabled", "path", path, "error", err)
		} else {
			h.OnShutdown("config-watcher", func(context.Context) error {
				return w.Stop()
			})
		}
	}

	go func() {
		if err := srv.Serve(ln); err != nil {
			cancel(err)
		}
	}()
	log.Info("http server listening", "addr", ln.Addr().String())

	err = h.Wait(ctx)
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return errors.Join(fmt.Errorf("serve: %w", cause), err)
	}
	if err != nil {
		return err
	}
	log.Info("servers stopped")
	return nil
}

// watchConfig reloads the log level whenever the file at path changes. An
// invalid file is logged and ignored.
func watchConfig(path string, overrides map[string]any, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}
	w.OnChange(func(string) {
		cfg, err := config.Load(path, overrides)
		if err != nil {
			log.Warn("config reload failed", "path", path, "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", logger.GetLevel())
		}
	})
	w.StartAsync()
	return w, nil
}

package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"migwatch/internal/config"
	"migwatch/internal/logging"
	"migwatch/internal/poll"
	"migwatch/internal/ui/live"
	"migwatch/internal/ui/plain"
	"migwatch/pkg/statusclient"
)

// watchContext returns the context a watch runs under. Tests replace it.
var watchContext = func() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// startLive launches the live renderer. Tests replace it.
var startLive = func(stdout io.Writer, opts live.Options) liveUI {
	return live.Start(stdout, opts)
}

// liveUI is the part of live.Controller the watch command drives.
type liveUI interface {
	poll.Observer
	Done() <-chan struct{}
	Close()
	Wait() error
}

type watchOptions struct {
	configPath string
	url        string
	uiMode     string
	logPath    string
	noColor    bool
	duration   time.Duration
}

// runWatch builds the handler for the watch command.
func runWatch(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		var opts watchOptions
		flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: search for "+config.ConfigFileName+")")
		flags.StringVar(&opts.url, "url", "", "Operation URL override")
		flags.StringVar(&opts.uiMode, "ui", "", "UI mode: auto|live|plain (default from config)")
		flags.StringVar(&opts.logPath, "log", "", "Log file override")
		flags.BoolVar(&opts.noColor, "no-color", false, "Disable colors")
		flags.DurationVar(&opts.duration, "for", 0, "Stop after this long (default: until interrupted)")
		if err := flags.Parse(args); err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		cfg, err := loadSessionConfig(opts.configPath, opts.url)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config:\n%v\n", err)
			return ExitError
		}
		if opts.uiMode != "" {
			cfg.View.UI = opts.uiMode
		}
		if opts.logPath != "" {
			cfg.Log.Path = opts.logPath
		}
		cfg.View.NoColor = cfg.View.NoColor || opts.noColor

		decision, err := resolveUIMode(cfg.View.UI, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		logger, closer, err := logging.Open(cfg.Log.Path, cfg.Log.Level)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open log: %v\n", err)
			return ExitError
		}
		defer closer.Close()

		ctx, stop := watchContext()
		defer stop()
		if opts.duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.duration)
			defer cancel()
		}

		if err := watch(ctx, cfg, decision.useLive, logger, stdout); err != nil {
			fmt.Fprintf(stderr, "Watch failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}

// watch runs one session until ctx ends or the operator quits the live UI.
func watch(ctx context.Context, cfg config.Config, useLive bool, logger *slog.Logger, stdout io.Writer) error {
	client := statusclient.NewWithTimeout(cfg.Endpoint.URL, cfg.Endpoint.Timeout())
	controls, err := liveControls(cfg.Controls)
	if err != nil {
		return err
	}

	var session *poll.Session
	var ui liveUI
	var observer poll.Observer
	if useLive {
		ui = startLive(stdout, live.Options{
			Title:           cfg.Endpoint.URL,
			NoColor:         cfg.View.NoColor,
			ScrollTolerance: cfg.View.Tolerance(),
			Controls:        controls,
			Submit: func(ctx context.Context, action string) error {
				return session.Submit(ctx, action)
			},
		})
		observer = ui
	} else {
		observer = plain.New(stdout, cfg.View.NoColor)
	}

	session = poll.NewSession(client, poll.Options{
		Fast:     cfg.Poll.Fast(),
		Slow:     cfg.Poll.Slow(),
		Observer: observer,
		Logger:   logger,
	})
	logger.Info("watch started", "session", session.ID(), "url", cfg.Endpoint.URL, "live", useLive)
	if err := session.Start(ctx); err != nil {
		if ui != nil {
			ui.Close()
			_ = ui.Wait()
		}
		return err
	}

	var quit <-chan struct{}
	if ui != nil {
		quit = ui.Done()
	}
	select {
	case <-ctx.Done():
	case <-quit:
	}
	session.Stop()
	session.Wait()
	if ui != nil {
		ui.Close()
		return ui.Wait()
	}
	return nil
}

// liveControls maps configured controls to renderer controls.
func liveControls(controls []config.ControlConfig) ([]live.ControlSpec, error) {
	out := make([]live.ControlSpec, 0, len(controls))
	for _, c := range controls {
		role, err := poll.ParseRole(c.Role)
		if err != nil {
			return nil, fmt.Errorf("control %q: %w", c.Name, err)
		}
		out = append(out, live.ControlSpec{
			Name:   c.Name,
			Label:  c.Label,
			Action: c.Action,
			Key:    c.Key,
			Role:   role,
		})
	}
	return out, nil
}

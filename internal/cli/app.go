// Package cli provides the command-line interface for tzclock.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/ngrash/go-tztime/caltime"
	"github.com/ngrash/go-tztime/clock"
)

// MakeApp creates a new CLI application instance reading the system clock.
func MakeApp() *cli.Command {
	return newApp(clock.Real{})
}

func newApp(clk clock.Clock) *cli.Command {
	return &cli.Command{
		Name:  "tzclock",
		Usage: "Convert, format and parse times with POSIX TZ rules",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "tz",
				Usage: "POSIX TZ rule or zone name (default: $TZ)",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "TOML or YAML configuration file",
				Sources: cli.EnvVars("TZCLOCK_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "names",
				Usage: "TOML or YAML table of weekday and month names",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Reject unknown directives and unusable TZ rules",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log timezone resolution to stderr",
			},
		},
		Commands: []*cli.Command{
			nowCommand(clk),
			formatCommand(clk),
			parseCommand(clk),
			zoneCommand(clk),
			inspectCommand(),
			compileCommand(),
		},
		CommandNotFound: func(_ context.Context, cmd *cli.Command, command string) {
			_ = cli.ShowAppHelp(cmd)
			w := lo.CoalesceOrEmpty(cmd.Root().ErrWriter, cmd.Root().Writer)
			_, _ = fmt.Fprintf(w, "\nCommand not found: %s\n", command)
		},
	}
}

// App is the main CLI application.
var App = MakeApp()

func stderr(cmd *cli.Command) io.Writer {
	return lo.CoalesceOrEmpty[io.Writer](cmd.Root().ErrWriter, os.Stderr)
}

func stdout(cmd *cli.Command) io.Writer {
	return lo.CoalesceOrEmpty[io.Writer](cmd.Root().Writer, os.Stdout)
}

func newLogger(cmd *cli.Command) *slog.Logger {
	level := lo.Ternary(cmd.Bool("verbose"), slog.LevelDebug, slog.LevelWarn)
	return slog.New(slog.NewTextHandler(stderr(cmd), &slog.HandlerOptions{Level: level}))
}

// converter builds the Converter described by the global flags. Flags take
// precedence over the configuration file.
func converter(cmd *cli.Command, clk clock.Clock) (*caltime.Converter, error) {
	var cfg caltime.Config
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = caltime.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	cfg.TZ = lo.CoalesceOrEmpty(cmd.String("tz"), cfg.TZ)
	cfg.NamesFile = lo.CoalesceOrEmpty(cmd.String("names"), cfg.NamesFile)
	if cmd.Bool("strict") {
		cfg.StrictDirectives = true
		cfg.StrictRules = true
	}

	c, err := caltime.New(cfg, newLogger(cmd))
	if err != nil {
		return nil, err
	}
	c.Clock = clk
	return c, nil
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/ngrash/go-tztime/clock"
	"github.com/ngrash/go-tztime/tm"
	"github.com/ngrash/go-tztime/tzif"
	"github.com/ngrash/go-tztime/tzrule"
)

var errUsage = errors.New("usage")

func usageError(cmd *cli.Command) error {
	return fmt.Errorf("%w: %s %s %s", errUsage, cmd.Root().Name, cmd.Name, cmd.ArgsUsage)
}

func utcFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "utc",
		Aliases: []string{"u"},
		Usage:   "Use UTC instead of the local zone",
	}
}

func formatFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "format",
		Aliases:  []string{"f"},
		Usage:    "strftime or strptime layout",
		Required: required,
	}
}

func nowCommand(clk clock.Clock) *cli.Command {
	return &cli.Command{
		Name:  "now",
		Usage: "Print the current time",
		Description: `Print the current time in the ctime layout, or with --format in any
strftime layout.

EXAMPLES:
  tzclock now                              Local time, e.g. "Wed Dec 25 00:00:00 2002"
  tzclock --tz UTC0 now --format %FT%TZ    ISO 8601 in UTC`,
		Flags: []cli.Flag{utcFlag(), formatFlag(false)},
		Action: func(_ context.Context, cmd *cli.Command) error {
			c, err := converter(cmd, clk)
			if err != nil {
				return err
			}
			b, err := lo.Ternary(cmd.Bool("utc"), c.GmtimeNow, c.LocaltimeNow)()
			if err != nil {
				return err
			}
			var s string
			if layout := cmd.String("format"); layout != "" {
				s, err = c.Strftime(layout, b)
			} else {
				s, err = c.Asctime(b)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdout(cmd), s)
			return err
		},
	}
}

func formatCommand(clk clock.Clock) *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "Format seconds since the epoch",
		ArgsUsage: "<epoch>",
		Flags:     []cli.Flag{utcFlag(), formatFlag(true)},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return usageError(cmd)
			}
			secs, err := strconv.ParseFloat(cmd.Args().First(), 64)
			if err != nil {
				return fmt.Errorf("%w: epoch %q: %w", tm.ErrType, cmd.Args().First(), err)
			}
			c, err := converter(cmd, clk)
			if err != nil {
				return err
			}
			b, err := lo.Ternary(cmd.Bool("utc"), c.Gmtime, c.Localtime)(secs)
			if err != nil {
				return err
			}
			s, err := c.Strftime(cmd.String("format"), b)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdout(cmd), s)
			return err
		},
	}
}

func parseCommand(clk clock.Clock) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse a time and print its epoch and fields",
		ArgsUsage: "<text>",
		Description: `Parse text with a strptime layout. The result is interpreted in the
local zone, or in UTC with --utc.

EXAMPLES:
  tzclock --tz UTC0 parse --format "%Y-%m-%d" 2002-12-25`,
		Flags: []cli.Flag{utcFlag(), formatFlag(true)},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return usageError(cmd)
			}
			c, err := converter(cmd, clk)
			if err != nil {
				return err
			}
			b, err := c.Strptime(cmd.Args().First(), cmd.String("format"))
			if err != nil {
				return err
			}
			secs, err := lo.Ternary(cmd.Bool("utc"), c.Timegm, c.Mktime)(b)
			if err != nil {
				return err
			}

			o := newWriter(stdout(cmd))
			o.Field("Epoch", strconv.FormatFloat(secs, 'f', -1, 64))
			o.Field("Year", strconv.FormatInt(b.Year, 10))
			o.Field("Month", strconv.Itoa(b.Month))
			o.Field("Day", strconv.Itoa(b.Day))
			o.Field("Time", fmt.Sprintf("%02d:%02d:%02d", b.Hour, b.Minute, b.Second))
			o.Field("Weekday", strconv.Itoa(b.Weekday))
			o.Field("YearDay", strconv.Itoa(b.YearDay))
			o.Field("IsDST", strconv.Itoa(b.IsDST))
			return o.err
		},
	}
}

func zoneCommand(clk clock.Clock) *cli.Command {
	return &cli.Command{
		Name:  "zone",
		Usage: "Print the resolved timezone state",
		Action: func(_ context.Context, cmd *cli.Command) error {
			c, err := converter(cmd, clk)
			if err != nil {
				return err
			}
			s, err := c.State()
			if err != nil {
				return err
			}
			o := newWriter(stdout(cmd))
			o.Field("TZ", s.TZ)
			o.Field("Rule", s.Rule.String())
			o.Field("Names", fmt.Sprintf("%s %s", s.Names[0], s.Names[1]))
			o.Field("Timezone", strconv.Itoa(s.Timezone))
			o.Field("Altzone", strconv.Itoa(s.Altzone))
			o.Field("Daylight", strconv.Itoa(s.Daylight))
			return o.err
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the headers and the TZ footer of a TZif file",
		ArgsUsage: "<tzif file>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return usageError(cmd)
			}
			f, err := os.Open(cmd.Args().First())
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := tzif.Inspect(f)
			if err != nil {
				return fmt.Errorf("%s: %w", cmd.Args().First(), err)
			}

			o := newWriter(stdout(cmd))
			o.Field("Version", info.Version.String())
			o.Header("V1 header", info.V1Header)
			if info.Version > tzif.V1 {
				o.Header("V2 header", info.V2Header)
			}
			o.Field("TZ", lo.Ternary(info.Version > tzif.V1, strconv.Quote(info.TZString), "(none)"))
			return o.err
		},
	}
}

var tzifVersions = map[string]tzif.Version{
	"1": tzif.V1,
	"2": tzif.V2,
	"3": tzif.V3,
	"4": tzif.V4,
}

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Write a TZif file that carries a POSIX TZ rule",
		ArgsUsage: "<rule>",
		Description: `Write a TZif file without transitions whose footer is the given rule.
The file can be used as a zone name with --tz or inspected with inspect.

EXAMPLES:
  tzclock compile --output ./Berlin "CET-1CEST,M3.5.0,M10.5.0/3"
  tzclock --tz "$PWD/Berlin" zone`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Path of the TZif file to write",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "tzif-version",
				Usage: "TZif version: 1, 2, 3 or 4",
				Value: "2",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return usageError(cmd)
			}
			v, ok := tzifVersions[cmd.String("tzif-version")]
			if !ok {
				return fmt.Errorf("%w: unsupported TZif version %q", tm.ErrValue, cmd.String("tzif-version"))
			}
			rule := cmd.Args().First()
			r, err := tzrule.Parse(rule)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			typ := tzif.LocalTimeType{Utoff: int32(r.Std.Offset), Designation: r.Std.Name}
			if err := tzif.Encode(&buf, v, typ, r.String()); err != nil {
				return err
			}
			if err := os.WriteFile(cmd.String("output"), buf.Bytes(), 0o644); err != nil {
				return err
			}
			newLogger(cmd).Debug("wrote tzif file", "path", cmd.String("output"), "version", v, "tz", r.String())
			return nil
		},
	}
}

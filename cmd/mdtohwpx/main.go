// Command mdtohwpx converts a Markdown document to a styled HWPX document
// using an existing HWPX file as a style template, per §6 of the external
// interface contract. The flag/command shape mirrors cmd/fbc/main.go's
// urfave/cli/v3 app in the retrieved pack, collapsed to the single-command
// surface this tool exposes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/ymseo741/mdtohwpx/internal/applog"
	"github.com/ymseo741/mdtohwpx/internal/convconfig"
	"github.com/ymseo741/mdtohwpx/internal/convert"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:      "mdtohwpx",
		Usage:     "converts a Markdown document to HWPX using a reference template",
		ArgsUsage: "<input.md>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "output `FILE` (.hwpx, .json, or .html)"},
			&cli.StringFlag{Name: "template", Aliases: []string{"r"}, Usage: "reference HWPX `FILE`; the packaged blank.hwpx is used if omitted"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug-level logging"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "log only errors"},
			&cli.BoolFlag{Name: "no-diagrams", Usage: "never contact the remote diagram renderer"},
		},
		Action: run,
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "mdtohwpx: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("expected exactly one input file argument")
	}

	log := applog.New(cmd.Bool("verbose"), cmd.Bool("quiet"))
	defer log.Sync() //nolint:errcheck

	opts := convert.Options{
		InputPath:       cmd.Args().Get(0),
		OutputPath:      cmd.String("output"),
		TemplatePath:    cmd.String("template"),
		DisableDiagrams: cmd.Bool("no-diagrams"),
		Limits:          convconfig.Default(),
	}

	if err := convert.Run(ctx, opts, log); err != nil {
		log.Error("conversion failed", zap.Error(err))
		return err
	}
	log.Info("conversion complete", zap.String("output", opts.OutputPath))
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/corestream/internal/logger"
	"github.com/samcharles93/corestream/internal/report"
	"github.com/samcharles93/corestream/pkg/core"
)

func inspectCmd() *cli.Command {
	var (
		limit    int
		jsonMode bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Summarize the blocks of a .core file",
		ArgsUsage: "<core>",
		Flags: []cli.Flag{
			assetsFlag(),
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "limit the number of blocks printed (0 prints all)",
				Destination: &limit,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the full summary as JSON",
				Destination: &jsonMode,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyAssetsConfig(cmd, cfg)
			applyInspectConfig(cmd, cfg, &limit)

			path, err := resolveCorePath(cmd.Args().First(), resolveAssetsDir(assetsDir))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			f, err := core.Open(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			summary, err := report.Summarize(f.Data)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			log.Debug("summarized core", "path", path, "blocks", summary.BlockCount)

			if jsonMode {
				return report.WriteJSON(os.Stdout, summary)
			}
			return report.WriteText(os.Stdout, summary, limit)
		},
	}
}

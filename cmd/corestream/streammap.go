package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/corestream/internal/logger"
	"github.com/samcharles93/corestream/internal/streammap"
)

func streamMapCmd() *cli.Command {
	var output string

	return &cli.Command{
		Name:      "stream-map",
		Usage:     "Reconcile a .core file with its .dmf export and write <core>.streams.json",
		ArgsUsage: "<core> <dmf>",
		Flags: []cli.Flag{
			assetsFlag(),
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "destination JSON path (defaults to <core>" + streammap.OutputSuffix + ")",
				Destination: &output,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyAssetsConfig(cmd, cfg)

			if cmd.Args().Len() != 2 {
				return cli.Exit("error: stream-map needs a .core file and a .dmf file", 1)
			}
			corePath, err := resolveCorePath(cmd.Args().Get(0), resolveAssetsDir(assetsDir))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			m, outPath, err := streammap.Generate(corePath, cmd.Args().Get(1), output, log)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			fmt.Printf("Wrote stream mapping for %d primitives to %s\n", len(m), outPath)
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/corestream/internal/api"
	"github.com/samcharles93/corestream/internal/chunktable"
	"github.com/samcharles93/corestream/internal/logger"
	"github.com/samcharles93/corestream/internal/streammap"
	"github.com/samcharles93/corestream/pkg/core"
)

func listCmd() *cli.Command {
	var withBlocks bool

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List .core files in the assets directory",
		Flags: []cli.Flag{
			assetsFlag(),
			&cli.BoolFlag{
				Name:        "blocks",
				Usage:       "parse every file and print its block count",
				Destination: &withBlocks,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyAssetsConfig(cmd, cfg)

			dir := resolveAssetsDir(assetsDir)
			if dir == "" {
				return cli.Exit(fmt.Sprintf("error: --assets-dir is required unless %s is set", envAssetsDir), 1)
			}
			cores, err := api.DiscoverCores(dir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if len(cores) == 0 {
				log.Info("no core files found", "path", dir)
				return nil
			}

			var counts []blockCount
			if withBlocks {
				counts, err = countBlocks(ctx, cores)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				for i, c := range counts {
					if c.err != nil {
						log.Warn("cannot parse core file", "path", cores[i], "error", c.err)
					}
				}
			}
			return writeCoreList(os.Stdout, dir, cores, counts)
		},
	}
}

type blockCount struct {
	n   int
	err error
}

// countBlocks parses the files concurrently. A file that fails to parse is
// recorded in its slot; only cancellation fails the whole call.
func countBlocks(ctx context.Context, cores []string) ([]blockCount, error) {
	counts := make([]blockCount, len(cores))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range cores {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := core.Open(p)
			if err != nil {
				counts[i].err = err
				return nil
			}
			counts[i].n = len(f.Blocks)
			return f.Close()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// writeCoreList prints each core file with its size, its block count when
// counts is non-nil, and the sidecars found next to it.
func writeCoreList(w io.Writer, dir string, cores []string, counts []blockCount) error {
	if _, err := fmt.Fprintf(w, "Core files in %s:\n\n", dir); err != nil {
		return err
	}
	for i, p := range cores {
		size := "?"
		if st, err := os.Stat(p); err == nil {
			size = formatSize(st.Size())
		}
		blocks := ""
		if counts != nil {
			if counts[i].err != nil {
				blocks = "  malformed"
			} else {
				blocks = fmt.Sprintf("  %d blocks", counts[i].n)
			}
		}
		var sidecars string
		if fileExists(chunktable.SidecarPath(p)) {
			sidecars += " chunk-tables"
		}
		if fileExists(streammap.DefaultOutputPath(p)) {
			sidecars += " streams"
		}
		if _, err := fmt.Fprintf(w, "  %-40s %10s%s%s\n", filepath.Base(p), size, blocks, sidecars); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%d core file(s) found\n", len(cores))
	return err
}

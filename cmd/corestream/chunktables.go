package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/corestream/internal/chunktable"
	"github.com/samcharles93/corestream/internal/logger"
)

func chunkTablesCmd() *cli.Command {
	var primitive string

	return &cli.Command{
		Name:      "chunk-tables",
		Usage:     "Print the chunk table sidecar of a .core file",
		ArgsUsage: "<core>",
		Flags: []cli.Flag{
			assetsFlag(),
			&cli.StringFlag{
				Name:        "primitive",
				Aliases:     []string{"p"},
				Usage:       "only print the chunks owned by this primitive GUID",
				Destination: &primitive,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyAssetsConfig(cmd, cfg)

			corePath, err := resolveCorePath(cmd.Args().First(), resolveAssetsDir(assetsDir))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			var filter *uuid.UUID
			if primitive != "" {
				id, err := uuid.Parse(primitive)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: invalid primitive guid %q", primitive), 1)
				}
				filter = &id
			}

			layouts, err := chunktable.NewStore().Load(corePath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			log.Debug("loaded chunk tables", "sidecar", chunktable.SidecarPath(corePath), "vertex_sets", len(layouts))
			return writeChunkTables(os.Stdout, layouts, filter)
		},
	}
}

// writeChunkTables prints every stream of every vertex set in GUID and role
// order. With a filter only the chunk owned by that primitive is printed and
// streams it does not appear in are skipped.
func writeChunkTables(w io.Writer, layouts map[uuid.UUID]chunktable.VertexSetLayout, filter *uuid.UUID) error {
	ids := make([]uuid.UUID, 0, len(layouts))
	for id := range layouts {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) })

	found := 0
	for _, id := range ids {
		vs := layouts[id]
		header := false
		roles := make([]string, 0, len(vs.Streams))
		for role := range vs.Streams {
			roles = append(roles, role)
		}
		slices.Sort(roles)
		for _, role := range roles {
			st := vs.Streams[role]
			chunks := st.Chunks
			if filter != nil {
				ch, ok := st.ChunkFor(*filter)
				if !ok {
					continue
				}
				chunks = []chunktable.Chunk{ch}
			}
			if !header {
				if _, err := fmt.Fprintf(w, "%s vertices=%d\n", id, vs.VertexCount); err != nil {
					return err
				}
				header = true
			}
			if _, err := fmt.Fprintf(w, "  %-12s stride=%d chunks=%d\n", role, st.Stride, len(chunks)); err != nil {
				return err
			}
			for _, ch := range chunks {
				found++
				if _, err := fmt.Fprintf(w, "    %s offset=%d length=%d vertices=%d\n",
					ch.PrimitiveGUID, ch.Offset, ch.Length, ch.VertexCount); err != nil {
					return err
				}
			}
		}
	}
	if filter != nil && found == 0 {
		_, err := fmt.Fprintf(w, "no chunks for primitive %s\n", *filter)
		return err
	}
	return nil
}

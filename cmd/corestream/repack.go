package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/corestream/internal/export"
	"github.com/samcharles93/corestream/internal/logger"
	"github.com/samcharles93/corestream/pkg/core"
)

func repackCmd() *cli.Command {
	var (
		meshName  string
		primitive int
	)

	return &cli.Command{
		Name:      "repack",
		Usage:     "Export one primitive of a .core file (shared stream layouts are not supported yet)",
		ArgsUsage: "<core>",
		Flags: []cli.Flag{
			assetsFlag(),
			&cli.StringFlag{
				Name:        "mesh-name",
				Usage:       "mesh name used for object names (defaults to the core file name)",
				Destination: &meshName,
			},
			&cli.IntFlag{
				Name:        "primitive",
				Aliases:     []string{"p"},
				Usage:       "index of the primitive to export",
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
			if meshName == "" {
				meshName = strings.TrimSuffix(filepath.Base(corePath), filepath.Ext(corePath))
			}

			c, err := core.ReadFile(corePath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			err = repack(os.Stdout, c, primitive, meshName)
			if errors.Is(err, export.ErrUnsupportedFormat) {
				log.Warn("export not supported", "core", corePath, "primitive", primitive)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return nil
		},
	}
}

// repack prints the primitives that share the selected primitive's vertex
// stream set and then attempts the export.
func repack(w io.Writer, c *core.Container, index int, meshName string) error {
	mesh := export.NewContainerMesh(c)
	prims := mesh.Primitives()
	if index < 0 || index >= len(prims) {
		return fmt.Errorf("primitive index %d out of range (%d primitives)", index, len(prims))
	}
	if ref, ok := prims[index].VertexStream(); ok {
		bindings := export.CollectSharing(mesh, ref.GUID(), meshName)
		if _, err := fmt.Fprintf(w, "vertex stream set %s is shared by %d primitive(s):\n", ref.GUID(), len(bindings)); err != nil {
			return err
		}
		for _, b := range bindings {
			if _, err := fmt.Fprintf(w, "  %s\n", b.ObjectName()); err != nil {
				return err
			}
		}
	}
	_, err := export.ExportPrimitive(mesh, prims[index], meshName)
	return err
}

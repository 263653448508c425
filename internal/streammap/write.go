package streammap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/samcharles93/corestream/internal/logger"
	"github.com/samcharles93/corestream/pkg/core"
)

// OutputSuffix is appended to the core file name to name the stream map.
const OutputSuffix = ".streams.json"

func DefaultOutputPath(corePath string) string {
	return corePath + OutputSuffix
}

// Encode renders m with sorted keys and two-space indentation.
func Encode(m Map) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteFile encodes m and replaces path with it. The data is written to a
// temporary file next to path first, so a failure never leaves a partial
// stream map behind.
func WriteFile(path string, m Map) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Generate reads corePath and dmfPath, builds the stream map and writes it to
// outPath (DefaultOutputPath when empty). It returns the map and the path it
// was written to. Nothing is written when any step fails.
func Generate(corePath, dmfPath, outPath string, log logger.Logger) (Map, string, error) {
	cf, err := core.Open(corePath)
	if err != nil {
		return nil, "", fmt.Errorf("open core: %w", err)
	}
	defer func() { _ = cf.Close() }()

	doc, err := ReadDocument(dmfPath)
	if err != nil {
		return nil, "", fmt.Errorf("read dmf: %w", err)
	}

	m, err := Build(InputFrom(cf.Container, doc), log)
	if err != nil {
		return nil, "", err
	}

	if outPath == "" {
		outPath = DefaultOutputPath(corePath)
	}
	if err := WriteFile(outPath, m); err != nil {
		return nil, "", fmt.Errorf("write stream map: %w", err)
	}
	log.Info("wrote stream map", "path", outPath, "vertex_sets", len(m))
	return m, outPath, nil
}

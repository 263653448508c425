package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samcharles93/corestream/internal/api"
)

const envAssetsDir = "CORESTREAM_ASSETS_DIR"

// resolveAssetsDir returns the flag value, falling back to the environment.
func resolveAssetsDir(flag string) string {
	if dir := strings.TrimSpace(flag); dir != "" {
		return dir
	}
	return strings.TrimSpace(os.Getenv(envAssetsDir))
}

// resolveCorePath accepts either a path to a core file or a name inside the
// assets directory, with or without the .core extension.
func resolveCorePath(arg, dir string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("a .core file is required")
	}
	if fileExists(arg) {
		return filepath.Clean(arg), nil
	}
	if dir != "" && !strings.ContainsAny(arg, `/\`) {
		cand := filepath.Join(dir, arg)
		if fileExists(cand) {
			return cand, nil
		}
		if !strings.HasSuffix(strings.ToLower(arg), api.CoreExt) {
			cand += api.CoreExt
			if fileExists(cand) {
				return cand, nil
			}
		}
	}
	return "", fmt.Errorf("core file not found: %s", arg)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func formatSize(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

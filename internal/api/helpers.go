package api

import (
	"cmp"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// CoreExt is the extension of container files served from the assets dir.
const CoreExt = ".core"

func badRequest(msg string) (int, any) {
	return errorBody(http.StatusBadRequest, "invalid_request_error", msg)
}

func notFound(msg string) (int, any) {
	return errorBody(http.StatusNotFound, "not_found_error", msg)
}

func unprocessable(msg string) (int, any) {
	return errorBody(http.StatusUnprocessableEntity, "format_error", msg)
}

func errorBody(status int, errType, msg string) (int, any) {
	return status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
		},
	}
}

// DiscoverCores lists the core files directly inside dir, sorted by path.
func DiscoverCores(dir string) ([]string, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("assets path is not a directory: %s", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	cores := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), CoreExt) {
			continue
		}
		cores = append(cores, filepath.Join(dir, e.Name()))
	}
	slices.Sort(cores)
	return cores, nil
}

// resolveCore maps a request name onto a core file inside dir. The name may
// omit the extension but must not contain a path.
func resolveCore(dir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", newInvalidRequest(fmt.Sprintf("invalid core name %q", name))
	}
	if !strings.HasSuffix(strings.ToLower(name), CoreExt) {
		name += CoreExt
	}
	path := filepath.Join(dir, name)
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrCoreNotFound, name)
	}
	return path, nil
}

func sortedKeys[K comparable, V any](m map[K]V, key func(K) string) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b K) int { return cmp.Compare(key(a), key(b)) })
	return keys
}

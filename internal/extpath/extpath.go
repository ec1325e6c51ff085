// Package extpath resolves extension keys to absolute filesystem paths.
package extpath

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/starford/wizardlink/internal/apperr"
)

var keyRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// Lookup maps an extension key and optional sub-path to a path.
type Lookup interface {
	Path(key, subPath string) (string, error)
}

// Resolve returns the absolute path of key joined with subPath. The result
// and any error come straight from lookup.
func Resolve(lookup Lookup, key, subPath string) (string, error) {
	return lookup.Path(key, subPath)
}

// Registry is a Lookup over a fixed set of extension directories.
type Registry struct {
	roots map[string]string
}

// NewRegistry builds a Registry from key → directory. Relative directories
// are resolved against base (the working directory when base is empty).
func NewRegistry(base string, dirs map[string]string) (*Registry, error) {
	r := &Registry{roots: make(map[string]string, len(dirs))}
	for key, dir := range dirs {
		if err := ValidateKey(key); err != nil {
			return nil, err
		}
		if !filepath.IsAbs(dir) && base != "" {
			dir = filepath.Join(base, dir)
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("extpath: resolve %s: %w", key, err)
		}
		r.roots[key] = abs
	}
	return r, nil
}

// ValidateKey checks that key is a well-formed extension key.
func ValidateKey(key string) error {
	if !keyRe.MatchString(key) {
		return fmt.Errorf("extpath: invalid extension key %q", key)
	}
	return nil
}

// Keys returns the registered extension keys, sorted.
func (r *Registry) Keys() []string {
	out := make([]string, 0, len(r.roots))
	for k := range r.roots {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Path returns the extension directory with a trailing separator, followed
// by subPath when given. subPath must stay inside the extension directory.
func (r *Registry) Path(key, subPath string) (string, error) {
	root, ok := r.roots[key]
	if !ok {
		return "", fmt.Errorf("extpath: %q: %w", key, apperr.ErrUnknownExtension)
	}
	dir := root + string(os.PathSeparator)
	if subPath == "" {
		return dir, nil
	}

	cleaned := filepath.Clean(filepath.FromSlash(strings.TrimLeft(subPath, "/")))
	joined := filepath.Join(root, cleaned)
	if joined != root && !strings.HasPrefix(joined, dir) {
		return "", fmt.Errorf("extpath: path escapes extension %s: %s", key, subPath)
	}
	if strings.HasSuffix(subPath, "/") && joined != root {
		joined += string(os.PathSeparator)
	}
	if joined == root {
		return dir, nil
	}
	return joined, nil
}

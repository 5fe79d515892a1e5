// Package starters bundles the project templates shipped with the binary.
//
// Layout:
//
//	templates/<name>/.template/template.yaml
//	templates/<name>/<files...>
//
// File and directory names are Go text/templates over the answers, e.g.
// templates/kedro-iris/src/{{.python_package}}/__init__.py.
package starters

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"shireesh.com/starter/internal/manifest"
)

const Default = "kedro-iris"

// FS embeds the templates directory; the all: prefix keeps the dot
// directories (.template) and dot files (.gitignore, .gitkeep).
//
//go:embed all:templates
var FS embed.FS

var ErrUnknownTemplate = errors.New("unknown template")

type Info struct {
	Name        string
	Description string
}

// List returns the templates found in fsys, which holds one directory per
// template. Directories without a manifest are skipped.
func List(fsys fs.FS) ([]Info, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var out []Info
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub, err := fs.Sub(fsys, e.Name())
		if err != nil {
			return nil, err
		}
		m, err := manifest.Load(sub)
		if errors.Is(err, manifest.ErrNoManifest) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", e.Name(), err)
		}
		out = append(out, Info{Name: e.Name(), Description: m.Description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Open returns the tree of the named template inside fsys.
func Open(fsys fs.FS, name string) (fs.FS, error) {
	if !fs.ValidPath(name) || name == "." || path.Dir(name) != "." {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	if _, err := fs.Stat(fsys, path.Join(name, manifest.File)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return fs.Sub(fsys, name)
}

// Builtin is the embedded templates directory.
func Builtin() fs.FS {
	sub, err := fs.Sub(FS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Package manifest reads the .template/template.yaml file that describes a
// template's questions.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"shireesh.com/starter/internal/answers"
)

const (
	Dir  = ".template"
	File = Dir + "/template.yaml"
)

const (
	KindText    = "text"
	KindConfirm = "confirm"
)

// CleanupIrisExample selects the post-generation removal of the declined
// iris example pipeline, parameters and dataset.
const CleanupIrisExample = "iris-example"

var ErrNoManifest = errors.New("template manifest not found")

type Question struct {
	Key     string `yaml:"key"`
	Prompt  string `yaml:"prompt"`
	Default string `yaml:"default"`
	Kind    string `yaml:"kind"`
}

type Manifest struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Questions   []Question `yaml:"questions"`
	// Verbatim holds path.Match patterns for files copied without rendering.
	Verbatim []string `yaml:"verbatim"`
	// Cleanup names the post-generation cleanup to run; empty runs none.
	Cleanup string `yaml:"cleanup"`
}

// Load reads the manifest from the root of a template filesystem.
func Load(fsys fs.FS) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoManifest
		}
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", File, err)
	}
	switch m.Cleanup {
	case "", CleanupIrisExample:
	default:
		return nil, fmt.Errorf("parse %s: unknown cleanup %q", File, m.Cleanup)
	}
	for i, q := range m.Questions {
		if q.Key == "" {
			return nil, fmt.Errorf("parse %s: question %d has no key", File, i)
		}
		switch q.Kind {
		case "":
			m.Questions[i].Kind = KindText
		case KindText, KindConfirm:
		default:
			return nil, fmt.Errorf("parse %s: question %s: unknown kind %q", File, q.Key, q.Kind)
		}
		if m.Questions[i].Prompt == "" {
			m.Questions[i].Prompt = q.Key
		}
	}
	return &m, nil
}

// Defaults returns the answers a user gets by accepting every default.
func (m *Manifest) Defaults() answers.Answers {
	out := answers.Answers{}
	for _, q := range m.Questions {
		if q.Default != "" {
			out[q.Key] = q.Default
		}
	}
	return out
}

// IsVerbatim reports whether the slash-separated rel path must be copied as is.
func (m *Manifest) IsVerbatim(rel string) bool {
	base := path.Base(rel)
	for _, pattern := range m.Verbatim {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

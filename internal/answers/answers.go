package answers

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"shireesh.com/starter/internal/cleanup"
)

// Question keys understood by the bundled templates.
const (
	ProjectName        = "project_name"
	RepoName           = "repo_name"
	PythonPackage      = "python_package"
	KedroVersion       = "kedro_version"
	IncludeExample     = "include_example"
	IncludeExampleData = "include_example_data"
)

var ErrInvalidAnswer = errors.New("invalid answer")

// affirmative is matched case-sensitively; "Yes" or "YES" count as no.
var affirmative = map[string]bool{
	"yes":  true,
	"True": true,
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Answers maps question keys to the raw strings the user gave.
type Answers map[string]string

// IsAffirmative reports whether s, ignoring surrounding whitespace, is one of
// the accepted "yes" spellings.
func IsAffirmative(s string) bool {
	return affirmative[strings.TrimSpace(s)]
}

func (a Answers) Bool(key string) bool {
	return IsAffirmative(a[key])
}

// Choices extracts the answers the post-generation cleanup depends on.
func (a Answers) Choices() cleanup.Choices {
	return cleanup.Choices{
		IncludeExample:     a.Bool(IncludeExample),
		IncludeExampleData: a.Bool(IncludeExampleData),
	}
}

// Merge returns a copy of a with every non-empty value of overrides applied.
func (a Answers) Merge(overrides Answers) Answers {
	out := maps.Clone(a)
	if out == nil {
		out = Answers{}
	}
	for k, v := range overrides {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Derive fills repo_name and python_package from project_name when they
// are not set.
func (a Answers) Derive() {
	if a[RepoName] == "" && a[ProjectName] != "" {
		a[RepoName] = slug.Make(a[ProjectName])
	}
	if a[PythonPackage] == "" && a[RepoName] != "" {
		a[PythonPackage] = strings.ReplaceAll(a[RepoName], "-", "_")
	}
}

func (a Answers) Validate() error {
	if strings.TrimSpace(a[ProjectName]) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidAnswer, ProjectName)
	}
	// repo_name becomes the project directory under the output directory.
	if repo := a[RepoName]; repo == "" || repo == "." || repo == ".." || strings.ContainsAny(repo, `/\`) {
		return fmt.Errorf("%w: %s %q must be a single directory name", ErrInvalidAnswer, RepoName, repo)
	}
	if pkg := a[PythonPackage]; !identifier.MatchString(pkg) {
		return fmt.Errorf("%w: %s %q is not a valid Python identifier", ErrInvalidAnswer, PythonPackage, pkg)
	}
	return nil
}

// Load reads answers from a YAML mapping. Scalars keep their literal text,
// so `include_example: True` is stored as "True".
func Load(path string) (Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (Answers, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	out := Answers{}
	if len(doc.Content) == 0 {
		return out, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: answers must be a mapping, line %d", ErrInvalidAnswer, root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: %s must be a scalar, line %d", ErrInvalidAnswer, key.Value, val.Line)
		}
		out[key.Value] = val.Value
	}
	return out, nil
}

// ParsePairs turns key=value strings into answers.
func ParsePairs(pairs []string) (Answers, error) {
	out := Answers{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", ErrInvalidAnswer, p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

// Package cleanup removes the example files of a freshly rendered project
// that the user declined during generation.
package cleanup

import (
	"os"
	"path/filepath"
)

// Relative locations of the example artifacts inside a generated project.
const (
	ExamplePipeline = "iris_example"
	ParametersFile  = "conf/base/parameters/iris_example.yml"
	DatasetFile     = "data/01_raw/iris.csv"
)

// Choices are the two answers the cleanup depends on.
type Choices struct {
	IncludeExample     bool
	IncludeExampleData bool
}

// keepDataset reports whether the raw dataset survives. The example
// pipeline reads it, so asking for the pipeline keeps the data too.
func (c Choices) keepDataset() bool {
	return c.IncludeExample || c.IncludeExampleData
}

// PipelinePath returns the example pipeline package directory for pkg,
// relative to the project root.
func PipelinePath(pkg string) string {
	return filepath.Join("src", pkg, "pipelines", ExamplePipeline)
}

// Targets lists, in removal order, the paths Run deletes for c.
func Targets(pkg string, c Choices) []string {
	var targets []string
	if !c.IncludeExample {
		targets = append(targets, PipelinePath(pkg), filepath.FromSlash(ParametersFile))
	}
	if !c.keepDataset() {
		targets = append(targets, filepath.FromSlash(DatasetFile))
	}
	return targets
}

// Run deletes the declined example artifacts under root. A target that is
// missing or cannot be removed aborts the run with the filesystem error;
// deletions already performed are not undone.
func Run(root, pkg string, c Choices) error {
	if !c.IncludeExample {
		if err := removeTree(filepath.Join(root, PipelinePath(pkg))); err != nil {
			return err
		}
		if err := os.Remove(filepath.Join(root, filepath.FromSlash(ParametersFile))); err != nil {
			return err
		}
	}
	if !c.keepDataset() {
		if err := os.Remove(filepath.Join(root, filepath.FromSlash(DatasetFile))); err != nil {
			return err
		}
	}
	return nil
}

// removeTree is os.RemoveAll that fails when path does not exist.
func removeTree(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return err
	}
	return os.RemoveAll(path)
}

package answers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shireesh.com/starter/internal/cleanup"
)

func TestIsAffirmative(t *testing.T) {
	for _, s := range []string{"yes", "True", " yes ", "True\n"} {
		assert.True(t, IsAffirmative(s), "%q", s)
	}
	for _, s := range []string{"YES", "Yes", "true", "TRUE", "y", "1", "no", "False", ""} {
		assert.False(t, IsAffirmative(s), "%q", s)
	}
}

func TestChoices(t *testing.T) {
	a := Answers{IncludeExample: "no", IncludeExampleData: "yes"}
	assert.Equal(t, cleanup.Choices{IncludeExample: false, IncludeExampleData: true}, a.Choices())

	assert.Equal(t, cleanup.Choices{}, Answers{}.Choices())
	assert.Equal(t, cleanup.Choices{}, Answers{IncludeExample: "YES", IncludeExampleData: "Yes"}.Choices())
}

func TestMerge(t *testing.T) {
	base := Answers{ProjectName: "Iris", IncludeExample: "yes"}
	merged := base.Merge(Answers{IncludeExample: "no", KedroVersion: ""})

	assert.Equal(t, "no", merged[IncludeExample])
	assert.Equal(t, "Iris", merged[ProjectName])
	assert.NotContains(t, merged, KedroVersion)
	assert.Equal(t, "yes", base[IncludeExample], "base must not be mutated")

	assert.Equal(t, Answers{RepoName: "x"}, Answers(nil).Merge(Answers{RepoName: "x"}))
}

func TestDerive(t *testing.T) {
	a := Answers{ProjectName: "Iris Flower Demo"}
	a.Derive()
	assert.Equal(t, "iris-flower-demo", a[RepoName])
	assert.Equal(t, "iris_flower_demo", a[PythonPackage])

	kept := Answers{ProjectName: "Iris", RepoName: "custom-repo", PythonPackage: "pkg"}
	kept.Derive()
	assert.Equal(t, "custom-repo", kept[RepoName])
	assert.Equal(t, "pkg", kept[PythonPackage])
}

func TestValidate(t *testing.T) {
	require.NoError(t, Answers{ProjectName: "Iris", RepoName: "iris-demo", PythonPackage: "iris_demo"}.Validate())

	err := Answers{RepoName: "iris", PythonPackage: "iris"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	err = Answers{ProjectName: "Iris", RepoName: "iris", PythonPackage: "1iris-demo"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidAnswer)
	assert.Contains(t, err.Error(), "1iris-demo")
}

func TestValidate_RepoNameIsOneDirectory(t *testing.T) {
	for _, repo := range []string{"", ".", "..", "../x", "a/b", `a\b`} {
		err := Answers{ProjectName: "Iris", RepoName: repo, PythonPackage: "iris"}.Validate()
		assert.ErrorIs(t, err, ErrInvalidAnswer, "%q", repo)
	}

	// A project name made only of symbols slugs to nothing.
	a := Answers{ProjectName: "???"}
	a.Derive()
	err := a.Validate()
	assert.ErrorIs(t, err, ErrInvalidAnswer)
	assert.ErrorContains(t, err, RepoName)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	content := `
project_name: Iris Demo
include_example: True
include_example_data: no
kedro_version: 0.18.4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	a, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Iris Demo", a[ProjectName])
	assert.Equal(t, "True", a[IncludeExample])
	assert.Equal(t, "no", a[IncludeExampleData])
	assert.Equal(t, "0.18.4", a[KedroVersion])
	assert.Equal(t, cleanup.Choices{IncludeExample: true}, a.Choices())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Parse([]byte("- a\n- b\n"))
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	_, err = Parse([]byte("include_example:\n  nested: yes\n"))
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	_, err = Parse([]byte("invalid: yaml: content: ["))
	assert.Error(t, err)

	a, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, a)
}

func TestParsePairs(t *testing.T) {
	a, err := ParsePairs([]string{"include_example=no", "project_name=A=B"})
	require.NoError(t, err)
	assert.Equal(t, Answers{IncludeExample: "no", ProjectName: "A=B"}, a)

	_, err = ParsePairs([]string{"novalue"})
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

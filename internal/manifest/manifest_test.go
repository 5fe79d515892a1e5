package manifest

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shireesh.com/starter/internal/answers"
)

const sample = `
name: kedro-iris
description: Kedro project with an iris example
cleanup: iris-example
verbatim:
  - "*.csv"
questions:
  - key: project_name
    prompt: Project name
    default: Iris Demo
  - key: include_example
    kind: confirm
    default: "yes"
  - key: python_package
`

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{File: {Data: []byte(sample)}}

	m, err := Load(fsys)
	require.NoError(t, err)
	assert.Equal(t, "kedro-iris", m.Name)
	assert.Equal(t, CleanupIrisExample, m.Cleanup)
	require.Len(t, m.Questions, 3)
	assert.Equal(t, KindText, m.Questions[0].Kind)
	assert.Equal(t, KindConfirm, m.Questions[1].Kind)
	assert.Equal(t, "include_example", m.Questions[1].Prompt)

	assert.Equal(t, answers.Answers{
		answers.ProjectName:    "Iris Demo",
		answers.IncludeExample: "yes",
	}, m.Defaults())
}

func TestLoad_NoCleanupByDefault(t *testing.T) {
	m, err := Load(fstest.MapFS{File: {Data: []byte("name: plain\n")}})
	require.NoError(t, err)
	assert.Empty(t, m.Cleanup)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(fstest.MapFS{})
	assert.ErrorIs(t, err, ErrNoManifest)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(fstest.MapFS{File: {Data: []byte("questions:\n  - kind: radio\n    key: x\n")}})
	assert.ErrorContains(t, err, "unknown kind")

	_, err = Load(fstest.MapFS{File: {Data: []byte("questions:\n  - prompt: nameless\n")}})
	assert.ErrorContains(t, err, "no key")

	_, err = Load(fstest.MapFS{File: {Data: []byte("cleanup: everything\n")}})
	assert.ErrorContains(t, err, "unknown cleanup")

	_, err = Load(fstest.MapFS{File: {Data: []byte("questions: [")}})
	assert.Error(t, err)
}

func TestIsVerbatim(t *testing.T) {
	m := &Manifest{Verbatim: []string{"*.csv", "docs/*.png"}}
	assert.True(t, m.IsVerbatim("data/01_raw/iris.csv"))
	assert.True(t, m.IsVerbatim("docs/logo.png"))
	assert.False(t, m.IsVerbatim("assets/logo.png"))
	assert.False(t, m.IsVerbatim("conf/base/catalog.yml"))
}

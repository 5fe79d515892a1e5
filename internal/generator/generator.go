package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"

	"shireesh.com/starter/internal/answers"
	"shireesh.com/starter/internal/cleanup"
	"shireesh.com/starter/internal/manifest"
)

const templateSuffix = ".tmpl"

var (
	ErrDestinationExists = errors.New("destination exists and is not empty")
	ErrUnsafePath        = errors.New("rendered path escapes the destination")
)

type Options struct {
	// Template is the template tree, manifest included.
	Template fs.FS
	Dest     string
	Answers  answers.Answers
	// Overwrite allows rendering into a non-empty destination.
	Overwrite bool
	Logger    logrus.FieldLogger
	Stdout    io.Writer
	Stderr    io.Writer
}

func (o *Options) defaults() {
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// Generate renders the template into opts.Dest, then runs the cleanup the
// manifest declares to remove the example files the answers declined. Pre
// and post shell hooks from the manifest directory run around the render.
func Generate(ctx context.Context, opts Options) error {
	opts.defaults()
	m, err := manifest.Load(opts.Template)
	if err != nil {
		return err
	}
	if err := prepareDest(opts.Dest, opts.Overwrite); err != nil {
		return err
	}
	log := opts.Logger.WithField("dest", opts.Dest)

	if err := runHook(ctx, opts, "pre.sh"); err != nil {
		return err
	}

	err = walkTemplate(opts.Template, opts.Answers, func(src, dst string, isDir bool) error {
		target := filepath.Join(opts.Dest, filepath.FromSlash(dst))
		if isDir {
			return os.MkdirAll(target, os.ModePerm)
		}
		log.WithField("path", dst).Debug("render")
		if m.IsVerbatim(src) {
			return copyFile(opts.Template, src, target)
		}
		return renderFile(opts.Template, src, target, opts.Answers)
	})
	if err != nil {
		return err
	}

	if m.Cleanup == manifest.CleanupIrisExample {
		pkg := opts.Answers[answers.PythonPackage]
		choices := opts.Answers.Choices()
		log.WithFields(logrus.Fields{
			"include_example":      choices.IncludeExample,
			"include_example_data": choices.IncludeExampleData,
		}).Debug("post-generation cleanup")
		if err := cleanup.Run(opts.Dest, pkg, choices); err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}
		for _, p := range cleanup.Targets(pkg, choices) {
			log.WithField("path", filepath.ToSlash(p)).Info("removed example")
		}
	}

	return runHook(ctx, opts, "post.sh")
}

// Plan lists the slash-separated files Generate would leave behind,
// without touching the filesystem. It fails the same way Generate does
// for a missing manifest or an occupied destination.
func Plan(opts Options) ([]string, error) {
	m, err := manifest.Load(opts.Template)
	if err != nil {
		return nil, err
	}
	if err := CheckDest(opts.Dest, opts.Overwrite); err != nil {
		return nil, err
	}
	var files []string
	err = walkTemplate(opts.Template, opts.Answers, func(_, dst string, isDir bool) error {
		if !isDir {
			files = append(files, dst)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	var removed []string
	if m.Cleanup == manifest.CleanupIrisExample {
		removed = cleanup.Targets(opts.Answers[answers.PythonPackage], opts.Answers.Choices())
	}
	kept := files[:0]
	for _, f := range files {
		if !underAny(f, removed) {
			kept = append(kept, f)
		}
	}
	sort.Strings(kept)
	return kept, nil
}

func underAny(f string, targets []string) bool {
	for _, t := range targets {
		t = filepath.ToSlash(t)
		if f == t || strings.HasPrefix(f, t+"/") {
			return true
		}
	}
	return false
}

// walkTemplate calls fn for every entry outside the manifest directory with
// the source path and its rendered destination path.
func walkTemplate(fsys fs.FS, vars answers.Answers, fn func(src, dst string, isDir bool) error) error {
	return fs.WalkDir(fsys, ".", func(src string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if src == "." {
			return nil
		}
		if src == manifest.Dir {
			return fs.SkipDir
		}
		dst, err := renderPath(src, vars)
		if err != nil {
			return err
		}
		return fn(src, dst, d.IsDir())
	})
}

func renderPath(src string, vars answers.Answers) (string, error) {
	dst, err := execute(src, src, vars)
	if err != nil {
		return "", fmt.Errorf("render path %s: %w", src, err)
	}
	dst = strings.TrimSuffix(path.Clean(dst), templateSuffix)
	if dst == "." || dst == ".." || strings.HasPrefix(dst, "../") || path.IsAbs(dst) {
		return "", fmt.Errorf("%w: %s -> %q", ErrUnsafePath, src, dst)
	}
	return dst, nil
}

func execute(name, text string, vars answers.Answers) (string, error) {
	tpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, map[string]string(vars)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderFile(fsys fs.FS, src, target string, vars answers.Answers) error {
	data, err := fs.ReadFile(fsys, src)
	if err != nil {
		return err
	}
	out, err := execute(src, string(data), vars)
	if err != nil {
		return fmt.Errorf("render %s: %w", src, err)
	}
	return os.WriteFile(target, []byte(out), filePerm(fsys, src))
}

func copyFile(fsys fs.FS, src, target string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm(fsys, src))
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, in); err != nil {
		f.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return f.Close()
}

// filePerm keeps the executable bit of the source; embedded files report 0444.
func filePerm(fsys fs.FS, src string) fs.FileMode {
	info, err := fs.Stat(fsys, src)
	if err == nil && info.Mode()&0o111 != 0 {
		return 0o755
	}
	return 0o644
}

// CheckDest reports whether dest may be rendered into: it must be missing
// or empty unless overwrite is set.
func CheckDest(dest string, overwrite bool) error {
	entries, err := os.ReadDir(dest)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return err
	case len(entries) > 0 && !overwrite:
		return fmt.Errorf("%w: %s", ErrDestinationExists, dest)
	}
	return nil
}

func prepareDest(dest string, overwrite bool) error {
	if err := CheckDest(dest, overwrite); err != nil {
		return err
	}
	return os.MkdirAll(dest, os.ModePerm)
}

// runHook feeds a shell script from the manifest directory to bash, with
// the destination as working directory and answers exported as
// STARTER_<KEY> variables. A missing script is not an error.
func runHook(ctx context.Context, opts Options, scriptName string) error {
	script, err := fs.ReadFile(opts.Template, path.Join(manifest.Dir, scriptName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	opts.Logger.WithField("hook", scriptName).Info("running hook")
	cmd := exec.CommandContext(ctx, "bash", "-s")
	cmd.Dir = opts.Dest
	cmd.Stdin = bytes.NewReader(script)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	cmd.Env = os.Environ()
	for k, v := range opts.Answers {
		cmd.Env = append(cmd.Env, "STARTER_"+strings.ToUpper(k)+"="+v)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("hook %s: %w", scriptName, err)
	}
	return nil
}

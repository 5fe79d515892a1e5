package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"shireesh.com/starter/internal/answers"
	"shireesh.com/starter/internal/compressor"
	"shireesh.com/starter/internal/generator"
	"shireesh.com/starter/internal/manifest"
	"shireesh.com/starter/internal/starters"
	"shireesh.com/starter/internal/tui"
)

type newOptions struct {
	output      string
	answersFile string
	set         []string
	noInput     bool
	overwrite   bool
	archive     string
	zip         string
	dryRun      bool
}

func newNewCmd(a *app) *cobra.Command {
	o := &newOptions{}
	cmd := &cobra.Command{
		Use:   "new [template]",
		Short: "Generate a project from a template",
		Long: `Generate a project from a template, then remove the example pipeline,
parameters and dataset the answers declined.

Answers are taken, lowest precedence first, from the template defaults, the
config file (answers.*), STARTER_ANSWERS_<KEY> variables, --answers and --set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runNew(cmd, o, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "directory the project folder is created in")
	f.StringVar(&o.answersFile, "answers", "", "YAML file with answers")
	f.StringArrayVar(&o.set, "set", nil, "answer as key=value, repeatable")
	f.BoolVar(&o.noInput, "no-input", false, "do not prompt, use defaults and given answers")
	f.BoolVar(&o.overwrite, "overwrite", false, "render into an existing non-empty directory")
	f.StringVar(&o.archive, "template-archive", "", "zip archive of templates to use instead of the built-in ones")
	f.StringVar(&o.zip, "zip", "", "also pack the generated project into this zip file")
	f.BoolVar(&o.dryRun, "dry-run", false, "print the files that would be generated and exit")
	return cmd
}

func (a *app) runNew(cmd *cobra.Command, o *newOptions, args []string) error {
	templates := a.templates
	if o.archive != "" {
		dir, err := os.MkdirTemp("", "starter-templates")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		if err := compressor.Unzip(o.archive, dir); err != nil {
			return fmt.Errorf("template archive: %w", err)
		}
		templates = os.DirFS(dir)
	}

	name, err := a.pickTemplate(templates, o, args)
	if err != nil {
		return err
	}
	tpl, err := starters.Open(templates, name)
	if err != nil {
		return err
	}
	m, err := manifest.Load(tpl)
	if err != nil {
		return err
	}

	given, err := o.collectAnswers(a)
	if err != nil {
		return err
	}
	ans := m.Defaults().Merge(given)
	if !o.noInput {
		ans, err = tui.Ask(a.prompter(), m.Questions, ans)
		if err != nil {
			return err
		}
	}
	ans.Derive()
	if err := ans.Validate(); err != nil {
		return err
	}

	output := o.output
	if output == "" {
		output = a.config.GetString("output")
	}
	output, err = expandPath(output)
	if err != nil {
		return err
	}
	dest := filepath.Join(output, ans[answers.RepoName])
	log := a.log.WithField("template", name).WithField("dest", dest)

	genOpts := generator.Options{
		Template:  tpl,
		Dest:      dest,
		Answers:   ans,
		Overwrite: o.overwrite,
		Logger:    log,
		Stdout:    cmd.OutOrStdout(),
		Stderr:    cmd.ErrOrStderr(),
	}
	if o.dryRun {
		files, err := generator.Plan(genOpts)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dest, filepath.FromSlash(f)))
		}
		return nil
	}

	log.Info("generating project")
	if err := generator.Generate(cmd.Context(), genOpts); err != nil {
		return err
	}
	if o.zip != "" {
		if err := compressor.ZipDir(dest, o.zip); err != nil {
			return fmt.Errorf("zip: %w", err)
		}
		log.WithField("archive", o.zip).Info("packed project")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", dest)
	return nil
}

func (a *app) pickTemplate(templates fs.FS, o *newOptions, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	infos, err := starters.List(templates)
	if err != nil {
		return "", err
	}
	var names []string
	for _, info := range infos {
		if o.noInput && info.Name == starters.Default {
			return info.Name, nil
		}
		names = append(names, info.Name)
	}
	if o.noInput {
		if len(names) == 0 {
			return "", fmt.Errorf("%w: no templates found", starters.ErrUnknownTemplate)
		}
		return names[0], nil
	}
	return a.selectTemplate(names)
}

func (o *newOptions) collectAnswers(a *app) (answers.Answers, error) {
	out := configAnswers(a.config)
	if o.answersFile != "" {
		fromFile, err := answers.Load(o.answersFile)
		if err != nil {
			return nil, fmt.Errorf("answers file: %w", err)
		}
		out = out.Merge(fromFile)
	}
	pairs, err := answers.ParsePairs(o.set)
	if err != nil {
		return nil, err
	}
	return out.Merge(pairs), nil
}

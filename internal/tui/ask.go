package tui

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"

	"shireesh.com/starter/internal/answers"
	"shireesh.com/starter/internal/manifest"
)

var confirmItems = []string{"yes", "no"}

// Prompter asks a single question and returns the raw answer.
type Prompter interface {
	Text(label, def string) (string, error)
	Confirm(label, def string) (string, error)
}

// Terminal prompts on the controlling terminal.
type Terminal struct{}

func (Terminal) Text(label, def string) (string, error) {
	prompt := promptui.Prompt{Label: label, Default: def, AllowEdit: true}
	return wrapInterrupt(prompt.Run())
}

func (Terminal) Confirm(label, def string) (string, error) {
	cursor := 0
	if !answers.IsAffirmative(def) {
		cursor = 1
	}
	sel := promptui.Select{Label: label, Items: confirmItems, CursorPos: cursor}
	_, res, err := sel.Run()
	return wrapInterrupt(res, err)
}

func wrapInterrupt(res string, err error) (string, error) {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return "", ErrCancelled
	}
	return res, err
}

// Ask walks the manifest questions in order, offering the value already in
// known as the default. Values derived from earlier answers (repo_name,
// python_package) are proposed as they become available.
func Ask(p Prompter, questions []manifest.Question, known answers.Answers) (answers.Answers, error) {
	out := known.Merge(nil)
	for _, q := range questions {
		work := out.Merge(nil)
		work.Derive()
		def := work[q.Key]

		var (
			res string
			err error
		)
		switch q.Kind {
		case manifest.KindConfirm:
			res, err = p.Confirm(q.Prompt, def)
		default:
			res, err = p.Text(q.Prompt, def)
		}
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", q.Key, err)
		}
		if res == "" {
			res = def
		}
		out[q.Key] = res
	}
	return out, nil
}

package ai

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

//go:embed prompts/*.tmpl
var promptsFS embed.FS

var prompts = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{"join": strings.Join}).
		Option("missingkey=error").
		ParseFS(promptsFS, "prompts/*.tmpl"),
)

// Prompt is what a Provider is asked to complete.
type Prompt struct {
	Kind   Kind
	System string
	User   string
	Schema *Schema
}

func renderPrompt(kind Kind, t task, args interface{}) (Prompt, error) {
	var sys, usr bytes.Buffer
	if err := prompts.ExecuteTemplate(&sys, "system", nil); err != nil {
		return Prompt{}, errors.Wrap(err, "rendering system prompt")
	}
	if err := prompts.ExecuteTemplate(&usr, t.prompt, args); err != nil {
		return Prompt{}, errors.Wrapf(err, "rendering %s prompt", kind)
	}
	return Prompt{
		Kind:   kind,
		System: sys.String(),
		User:   strings.TrimSpace(usr.String()),
		Schema: t.schema,
	}, nil
}

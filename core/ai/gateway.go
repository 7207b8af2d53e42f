package ai

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

// Provider completes a prompt into a JSON document matching Prompt.Schema.
// Failures are reported as *ProviderError.
type Provider interface {
	Name() string
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Gateway routes generation requests to the configured provider.
type Gateway struct {
	provider Provider
	validate *validator.Validate
}

func NewGateway(provider Provider, validate *validator.Validate) *Gateway {
	return &Gateway{provider: provider, validate: validate}
}

// Provider returns the name of the provider in use.
func (g *Gateway) Provider() string {
	return g.provider.Name()
}

// Generate decodes rawArgs for kind, prompts the provider and decodes its answer into the kind's result type.
func (g *Gateway) Generate(ctx context.Context, kind Kind, rawArgs []byte) (interface{}, error) {
	t, ok := tasks[kind]
	if !ok {
		return nil, core.NewNotFoundError("generation kind", string(kind))
	}

	args := t.newArgs()
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, args); err != nil {
			return nil, core.NewValidationError(errors.Wrap(err, "invalid request body"))
		}
	}
	if err := g.validate.Struct(args); err != nil {
		return nil, err
	}

	prompt, err := renderPrompt(kind, t, args)
	if err != nil {
		return nil, err
	}

	out, err := g.provider.Complete(ctx, prompt)
	if err != nil {
		if _, ok := AsProviderError(err); ok {
			return nil, err
		}
		return nil, NewProviderError(NetworkOrHTTPFailure, g.provider.Name(), err)
	}

	result := t.newResult()
	if err := decodeResult(out, result); err != nil {
		return nil, NewProviderError(MalformedResponse, g.provider.Name(), err)
	}
	return result, nil
}

// decodeResult parses the provider output, tolerating a fenced ```json block.
func decodeResult(out string, result interface{}) error {
	body := stripFence(out)
	if body == "" {
		return errors.New("empty response")
	}
	if err := json.Unmarshal([]byte(body), result); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

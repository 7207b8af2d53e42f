package aisvc

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/ai"
)

const openaiName = "openai"

type (
	openaiMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	openaiJSONSchema struct {
		Name   string     `json:"name"`
		Schema *ai.Schema `json:"schema"`
	}

	openaiResponseFormat struct {
		Type       string            `json:"type"`
		JSONSchema *openaiJSONSchema `json:"json_schema,omitempty"`
	}

	openaiRequest struct {
		Model          string               `json:"model"`
		Messages       []openaiMessage      `json:"messages"`
		ResponseFormat openaiResponseFormat `json:"response_format"`
	}

	openaiResponse struct {
		Choices []struct {
			Message      openaiMessage `json:"message"`
			FinishReason string        `json:"finish_reason"`
		} `json:"choices"`
	}
)

// OpenAI calls the chat completions endpoint.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewOpenAI(conf core.AIConfig, client *http.Client) *OpenAI {
	return &OpenAI{
		apiKey:  conf.OpenAIAPIKey,
		model:   conf.OpenAIModel,
		baseURL: strings.TrimSuffix(conf.OpenAIBaseURL, "/"),
		client:  client,
	}
}

func (o *OpenAI) Name() string { return openaiName }

func (o *OpenAI) Complete(ctx context.Context, p ai.Prompt) (string, error) {
	if o.apiKey == "" {
		return "", ai.NewProviderError(ai.MissingCredential, openaiName, errors.New("OPENAI_API_KEY not set"))
	}

	req := openaiRequest{Model: o.model}
	if p.System != "" {
		req.Messages = append(req.Messages, openaiMessage{Role: "system", Content: p.System})
	}
	req.Messages = append(req.Messages, openaiMessage{Role: "user", Content: p.User})
	if p.Schema != nil {
		req.ResponseFormat = openaiResponseFormat{
			Type:       "json_schema",
			JSONSchema: &openaiJSONSchema{Name: strings.ReplaceAll(string(p.Kind), "-", "_"), Schema: p.Schema},
		}
	} else {
		req.ResponseFormat = openaiResponseFormat{Type: "json_object"}
	}

	header := http.Header{"Authorization": []string{"Bearer " + o.apiKey}}
	body, err := postJSON(ctx, o.client, openaiName, o.baseURL+"/chat/completions", header, req)
	if err != nil {
		return "", err
	}

	var resp openaiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", ai.NewProviderError(ai.MalformedResponse, openaiName, errors.Wrap(err, "decoding response"))
	}
	if len(resp.Choices) == 0 {
		return "", ai.NewProviderError(ai.MalformedResponse, openaiName, errors.New("no choices returned"))
	}
	return resp.Choices[0].Message.Content, nil
}

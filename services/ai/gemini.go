package aisvc

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/ai"
)

const geminiName = "gemini"

type (
	geminiPart struct {
		Text string `json:"text"`
	}

	geminiContent struct {
		Role  string       `json:"role,omitempty"`
		Parts []geminiPart `json:"parts"`
	}

	geminiGenerationConfig struct {
		ResponseMimeType string     `json:"responseMimeType"`
		ResponseSchema   *ai.Schema `json:"responseSchema,omitempty"`
	}

	geminiRequest struct {
		SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
		Contents          []geminiContent        `json:"contents"`
		GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
	}

	geminiResponse struct {
		Candidates []struct {
			Content      geminiContent `json:"content"`
			FinishReason string        `json:"finishReason"`
		} `json:"candidates"`
	}
)

// Gemini calls the generateContent endpoint of the Gemini API.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGemini(conf core.AIConfig, client *http.Client) *Gemini {
	return &Gemini{
		apiKey:  conf.GeminiAPIKey,
		model:   conf.GeminiModel,
		baseURL: strings.TrimSuffix(conf.GeminiBaseURL, "/"),
		client:  client,
	}
}

func (g *Gemini) Name() string { return geminiName }

func (g *Gemini) Complete(ctx context.Context, p ai.Prompt) (string, error) {
	if g.apiKey == "" {
		return "", ai.NewProviderError(ai.MissingCredential, geminiName, errors.New("GEMINI_API_KEY not set"))
	}

	req := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: p.User}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   p.Schema.Map(strings.ToUpper),
		},
	}
	if p.System != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: p.System}}}
	}

	endpoint := g.baseURL + "/models/" + url.PathEscape(g.model) + ":generateContent"
	header := http.Header{"X-Goog-Api-Key": []string{g.apiKey}}
	body, err := postJSON(ctx, g.client, geminiName, endpoint, header, req)
	if err != nil {
		return "", err
	}

	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", ai.NewProviderError(ai.MalformedResponse, geminiName, errors.Wrap(err, "decoding response"))
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ai.NewProviderError(ai.MalformedResponse, geminiName, errors.New("no candidates returned"))
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

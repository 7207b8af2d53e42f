package aisvc

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/ai"
)

// NewProvider returns the configured provider behind a circuit breaker.
func NewProvider(conf *core.Config, logger core.Logger) (ai.Provider, error) {
	client := &http.Client{Timeout: conf.AI.Timeout}

	var p ai.Provider
	switch conf.AI.Provider {
	case core.AIProviderGemini:
		p = NewGemini(conf.AI, client)
	case core.AIProviderOpenAI:
		p = NewOpenAI(conf.AI, client)
	default:
		return nil, errors.Errorf("unknown AI provider %q", conf.AI.Provider)
	}
	return NewBreaker(p, logger), nil
}

// apiError is the error envelope shared by both vendors.
type apiError struct {
	Error struct {
		Code    interface{} `json:"code"`
		Message string      `json:"message"`
		Status  string      `json:"status"`
		Type    string      `json:"type"`
	} `json:"error"`
}

// postJSON sends payload to url and returns the response body of a 200 reply.
// Network failures and any other status come back as NetworkOrHTTPFailure.
func postJSON(ctx context.Context, client *http.Client, provider, url string, header http.Header, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, ai.NewProviderError(ai.NetworkOrHTTPFailure, provider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ai.NewProviderError(ai.NetworkOrHTTPFailure, provider, errors.Wrap(err, "reading response"))
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			err = errors.Errorf("api error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		} else {
			err = errors.Errorf("api error (%d): %s", resp.StatusCode, truncate(string(respBody), 200))
		}
		return nil, ai.NewProviderError(ai.NetworkOrHTTPFailure, provider, err)
	}
	return respBody, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const openAIChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIClient calls the OpenAI chat completions API.
type OpenAIClient struct {
	APIKey     string
	Model      string
	URL        string
	HTTPClient *http.Client
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		APIKey:     apiKey,
		Model:      model,
		URL:        openAIChatCompletionsURL,
		HTTPClient: &http.Client{},
	}
}

// Complete implements CompletionClient.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (CompletionResult, error) {
	requestData := openAIRequest{
		Model: c.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	payload, err := json.Marshal(requestData)
	if err != nil {
		return CompletionResult{}, fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.URL, bytes.NewBuffer(payload))
	if err != nil {
		return CompletionResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return CompletionResult{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return CompletionResult{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if apiErrorCode(body) == "insufficient_quota" {
			return CompletionResult{}, ErrProviderQuota
		}
		return CompletionResult{}, fmt.Errorf("API error: %s", string(body))
	}

	var responseData struct {
		Choices []struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(body, &responseData); err != nil {
		return CompletionResult{}, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(responseData.Choices) == 0 {
		return CompletionResult{}, fmt.Errorf("unexpected response format")
	}

	return CompletionResult{
		Text:        responseData.Choices[0].Message.Content,
		TotalTokens: responseData.Usage.TotalTokens,
	}, nil
}

// apiErrorCode pulls the error code out of an OpenAI error body, "" if the
// body is not the expected shape.
func apiErrorCode(body []byte) string {
	var errorData struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errorData); err != nil {
		return ""
	}
	return errorData.Error.Code
}

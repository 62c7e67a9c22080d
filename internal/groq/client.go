package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	apiURL       = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel = "llama3-8b-8192"
)

// promptPrefix frames every user prompt as a request to the platform's
// storytelling assistant.
const promptPrefix = "take this query for me and please act as a chat bot for my " +
	"interactive fiction story telling platform website keep answers as creative " +
	"as possible, humanly without any bold text or formatting just simple text " +
	"and add a friendly and professional sense: "

// Client is a stateless passthrough to the Groq chat-completions API.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionReq struct {
	Messages []message `json:"messages"`
	Model    string    `json:"model"`
}

type completionResp struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Complete sends the prefixed prompt and returns the first choice's
// text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", errors.New("groq client not configured")
	}

	body, err := json.Marshal(completionReq{
		Messages: []message{{Role: "user", Content: promptPrefix + prompt}},
		Model:    c.model,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("groq API error: status %d", resp.StatusCode)
	}

	var out completionResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("groq response decode failed: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

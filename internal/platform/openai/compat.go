package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// compatClient calls any OpenAI-compatible /chat/completions endpoint (Groq, vLLM, LiteLLM).
// BaseURL includes the version prefix.
type compatClient struct {
	*transport
	model       string
	temperature *float64
}

func NewCompatClient(log *logger.Logger, cfg Config) (Client, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("openai-compat model required")
	}
	t, err := newTransport(log, "OpenAICompatClient", cfg, groqBaseURL)
	if err != nil {
		return nil, err
	}
	return &compatClient{transport: t, model: model, temperature: cfg.Temperature}, nil
}

func (c *compatClient) Name() string { return "compat:" + c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    *float64          `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *compatClient) complete(ctx context.Context, req chatRequest) (string, error) {
	var resp chatResponse
	if err := c.do(ctx, http.MethodPost, "/chat/completions", &req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai-compat api")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty response from openai-compat api")
	}
	return text, nil
}

// GenerateJSON uses json_object mode; the schema travels in the system prompt since not every
// compatible endpoint supports json_schema.
func (c *compatClient) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	if schema != nil {
		raw, err := json.Marshal(schema)
		if err != nil {
			return nil, err
		}
		system = strings.TrimSpace(system) + "\n\nRespond with a single JSON object matching this JSON schema (" + schemaName + "):\n" + string(raw)
	}
	text, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    c.temperature,
	})
	if err != nil {
		return nil, err
	}
	return decodeJSONObject(text)
}

func (c *compatClient) GenerateText(ctx context.Context, system string, user string) (string, error) {
	msgs := make([]chatMessage, 0, 2)
	if strings.TrimSpace(system) != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: user})
	return c.complete(ctx, chatRequest{Model: c.model, Messages: msgs, Temperature: c.temperature})
}

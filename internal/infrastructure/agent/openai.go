package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
)

const DefaultMaxIterations = 3

const systemPrompt = `You are a senior frontend engineer working in a Next.js 15 app with Tailwind CSS and shadcn/ui.
Produce the files needed to implement the user's request. Import shadcn components from "@/components/ui/...".
Do not modify package.json or config files. Use relative paths such as "app/page.tsx".

Respond with a single JSON object:
{
  "files": {"path": "full file contents", ...},
  "title": "short title of the generated UI (max 3 words)",
  "response": "one or two friendly sentences describing what was built",
  "summary": "task summary; leave empty until every file is complete"
}`

const continuePrompt = `Continue. Return only files that are new or changed, and set "summary" once the task is complete.`

// Config configures the OpenAI-compatible code agent.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	MaxTokens     int
	Temperature   float64
	MaxIterations int
}

type completion struct {
	Files    map[string]string `json:"files"`
	Title    string            `json:"title"`
	Response string            `json:"response"`
	Summary  string            `json:"summary"`
}

// OpenAIAgent runs a bounded completion loop that stops as soon as the model reports a summary.
type OpenAIAgent struct {
	client        *openai.Client
	model         string
	maxTokens     int
	temperature   float64
	maxIterations int
	log           zerolog.Logger
}

// NewOpenAIAgent builds the agent. An empty BaseURL uses the public OpenAI endpoint.
func NewOpenAIAgent(cfg Config, log zerolog.Logger) *OpenAIAgent {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	return &OpenAIAgent{
		client:        openai.NewClientWithConfig(clientCfg),
		model:         cfg.Model,
		maxTokens:     cfg.MaxTokens,
		temperature:   cfg.Temperature,
		maxIterations: cfg.MaxIterations,
		log:           log,
	}
}

// Generate implements ports.CodeAgent. Files from later iterations overwrite earlier ones by path.
func (a *OpenAIAgent) Generate(ctx context.Context, prompt string, history []*domain.Message) (*ports.AgentResult, error) {
	messages := []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: systemPrompt}}
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	result := &ports.AgentResult{Files: map[string]string{}}
	for i := 0; i < a.maxIterations; i++ {
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:          a.model,
			Messages:       messages,
			MaxTokens:      a.maxTokens,
			Temperature:    float32(a.temperature),
			ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		})
		if err != nil {
			return nil, fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New("chat completion returned no choices")
		}
		raw := strings.TrimSpace(resp.Choices[0].Message.Content)
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: raw})

		var c completion
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			a.log.Warn().Err(err).Int("iteration", i).Msg("agent response is not valid JSON")
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: continuePrompt})
			continue
		}
		for path, content := range c.Files {
			result.Files[path] = content
		}
		if c.Title != "" {
			result.Title = c.Title
		}
		if c.Response != "" {
			result.Response = c.Response
		}
		if strings.TrimSpace(c.Summary) != "" {
			result.Summary = c.Summary
			return result, nil
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: continuePrompt})
	}
	a.log.Warn().Int("iterations", a.maxIterations).Int("files", len(result.Files)).Msg("agent stopped without a summary")
	return result, nil
}

func historyMessages(history []*domain.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		if m.Type == domain.MessageError {
			continue
		}
		role := openai.ChatMessageRoleUser
		if m.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

var _ ports.CodeAgent = (*OpenAIAgent)(nil)

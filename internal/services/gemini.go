package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"

	"google.golang.org/api/option"

	"storyboard-backend/internal/models"
)

// StructuredCaller is the model invocation boundary: one structured-output
// request against a given credential, returning the raw response text.
type StructuredCaller interface {
	GenerateStructured(ctx context.Context, apiKey, prompt string, schema *genai.Schema) (string, error)
}

// GeminiService implements StructuredCaller over the Gemini API. Clients are
// cached per credential because quota rotation switches keys mid-run.
type GeminiService struct {
	mu      sync.Mutex
	clients map[string]*genai.Client
	model   string
}

func NewGeminiService(model string) *GeminiService {
	return &GeminiService{
		clients: make(map[string]*genai.Client),
		model:   model,
	}
}

func (s *GeminiService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		c.Close()
	}
	s.clients = make(map[string]*genai.Client)
}

func (s *GeminiService) clientFor(ctx context.Context, apiKey string) (*genai.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.clients[apiKey]; ok {
		return c, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	s.clients[apiKey] = client
	return client, nil
}

func (s *GeminiService) GenerateStructured(ctx context.Context, apiKey, prompt string, schema *genai.Schema) (string, error) {
	client, err := s.clientFor(ctx, apiKey)
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(s.model)
	model.SetTemperature(0.3)
	model.SetTopP(0.95)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("Gemini returned empty response")
	}

	return text, nil
}

// ChatWithStoryboard answers a free-form question grounded in a completed
// storyboard. Plain text side-channel, no schema.
func (s *GeminiService) ChatWithStoryboard(ctx context.Context, apiKey, storyboardContext, message string, history []models.ChatMessage) (string, error) {
	client, err := s.clientFor(ctx, apiKey)
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(s.model)
	model.SetTemperature(0.7)

	var b strings.Builder
	b.WriteString("You are a creative assistant answering questions about a video storyboard. Use only the storyboard below as your source of truth.\n\n")
	b.WriteString("---STORYBOARD---\n")
	b.WriteString(storyboardContext)
	b.WriteString("\n---END---\n\n")

	for _, msg := range history {
		role := "User"
		if msg.Role == "assistant" {
			role = "Assistant"
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", role, msg.Content))
	}
	b.WriteString("User: " + message + "\n")
	b.WriteString("Assistant:")

	resp, err := model.GenerateContent(ctx, genai.Text(b.String()))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	reply := strings.TrimSpace(extractText(resp))
	if reply == "" {
		return "", fmt.Errorf("Gemini returned empty reply")
	}

	return reply, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// Generator is the contract the pipeline consumes: one prompt in, raw
// generated text out. A single attempt per call; retries are the caller's
// business.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIService implements Generator against either Gemini (the default) or an
// OpenAI-compatible endpoint, chosen by configuration at startup.
type AIService struct {
	provider    string
	gemini      *genai.Client
	geminiModel string
	openai      *openai.Client
	openaiModel string
}

const generateTimeout = 2 * time.Minute

// NewAIService builds the configured backend. With no API key at all it
// returns a disabled service whose Generate fails with ErrAIUnavailable.
func NewAIService(ctx context.Context, provider, geminiKey, geminiModel, openaiKey, openaiModel, openaiEndpoint string) (*AIService, error) {
	s := &AIService{provider: strings.ToLower(strings.TrimSpace(provider))}

	if geminiKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(geminiKey))
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		s.gemini = client
		s.geminiModel = geminiModel
	}

	if openaiKey != "" {
		cfg := openai.DefaultConfig(openaiKey)
		if openaiEndpoint != "" {
			cfg.BaseURL = openaiEndpoint
		}
		s.openai = openai.NewClientWithConfig(cfg)
		s.openaiModel = openaiModel
	}

	return s, nil
}

// Configured reports whether any generation backend is usable.
func (s *AIService) Configured() bool {
	return s != nil && (s.gemini != nil || s.openai != nil)
}

// Close releases the underlying client connections.
func (s *AIService) Close() {
	if s.gemini != nil {
		s.gemini.Close()
	}
}

// Generate sends the prompt to the configured model and returns its text.
// All failure causes (quota, network, malformed response, content filter)
// surface as a single GenerationError.
func (s *AIService) Generate(ctx context.Context, prompt string) (string, error) {
	if !s.Configured() {
		return "", &GenerationError{Message: "generation failed", Err: ErrAIUnavailable}
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	var (
		text string
		err  error
	)
	if s.useOpenAI() {
		text, err = s.generateOpenAI(ctx, prompt)
	} else {
		text, err = s.generateGemini(ctx, prompt)
	}
	if err != nil {
		return "", &GenerationError{Message: "generation failed", Err: err}
	}
	return text, nil
}

func (s *AIService) useOpenAI() bool {
	if s.provider == "openai" && s.openai != nil {
		return true
	}
	return s.gemini == nil
}

func (s *AIService) generateGemini(ctx context.Context, prompt string) (string, error) {
	model := s.gemini.GenerativeModel(s.geminiModel)
	model.SetTemperature(0.4)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("request gemini content: %w", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", errors.New("gemini returned no text")
	}
	return b.String(), nil
}

func (s *AIService) generateOpenAI(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: s.openaiModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.4,
		MaxTokens:   4096,
	}

	resp, err := s.openai.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("request openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

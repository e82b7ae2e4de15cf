package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	maxNewTokens = 200
	temperature  = 0.7
)

type OpenAIService struct {
	client     *openai.Client
	modelText  string
	modelImage string
}

// NewOpenAIService builds a client; baseURL may be empty for the public API.
func NewOpenAIService(apiKey, baseURL, modelText, modelImage string) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIService{
		client:     openai.NewClientWithConfig(cfg),
		modelText:  modelText,
		modelImage: modelImage,
	}
}

// Generate completes a single user prompt with the text model.
func (s *OpenAIService) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.modelText,
		MaxTokens:   maxNewTokens,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model %s", s.modelText)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// DescribeImage asks the vision model for a textual description of an image.
func (s *OpenAIService) DescribeImage(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	imageURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.modelImage,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Transcribe any text in this image, then describe the document it shows.",
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe image: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model %s", s.modelImage)
	}
	return resp.Choices[0].Message.Content, nil
}

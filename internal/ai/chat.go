package ai

import (
	"context"
	"fmt"
	"strings"

	"hr-rag-assistant/internal/config"

	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	genai "github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"
)

// Completion parameters shared by every provider: deterministic sampling and
// a bounded answer length.
const (
	Temperature     float32 = 0
	MaxOutputTokens         = 500
)

// ChatModel issues a single system+user chat completion.
type ChatModel interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// NewChatModel builds the chat client for cfg.AIProvider. The returned close
// function releases the underlying client.
func NewChatModel(ctx context.Context, cfg *config.Config) (ChatModel, func() error, error) {
	switch cfg.AIProvider {
	case config.ProviderAzure, "":
		m, err := newAzureChat(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return m, func() error { return nil }, nil
	case config.ProviderGoogle:
		m, err := newGoogleChat(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown chat provider: %s", cfg.AIProvider)
	}
}

// AzureChat calls an Azure OpenAI chat deployment.
type AzureChat struct {
	model      model.BaseChatModel
	deployment string
}

func newAzureChat(ctx context.Context, cfg *config.Config) (*AzureChat, error) {
	temperature := Temperature
	maxTokens := MaxOutputTokens

	m, err := openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
		ByAzure:     true,
		BaseURL:     cfg.ChatEndpoint,
		APIKey:      cfg.ChatKey,
		APIVersion:  cfg.APIVersion,
		Model:       cfg.ChatModel,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create azure chat model: %w", err)
	}
	return &AzureChat{model: m, deployment: cfg.ChatModel}, nil
}

func (a *AzureChat) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, span := otel.Tracer("chat-client").Start(ctx, "azure_openai.chat_completion")
	defer span.End()
	span.SetAttributes(attribute.String("chat.deployment", a.deployment))

	msg, err := a.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	})
	if err != nil {
		span.SetAttributes(attribute.String("chat.error_message", err.Error()))
		return "", err
	}
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		span.SetAttributes(attribute.Int("chat.total_tokens", msg.ResponseMeta.Usage.TotalTokens))
	}
	return strings.TrimSpace(msg.Content), nil
}

// GoogleChat calls a Gemini model.
type GoogleChat struct {
	client *genai.Client
	model  string
}

func newGoogleChat(ctx context.Context, cfg *config.Config) (*GoogleChat, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GoogleChat{client: client, model: cfg.ChatModel}, nil
}

func (g *GoogleChat) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, span := otel.Tracer("chat-client").Start(ctx, "gemini.generate_content")
	defer span.End()
	span.SetAttributes(attribute.String("gemini.model", g.model))

	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(Temperature)
	m.SetMaxOutputTokens(MaxOutputTokens)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		span.SetAttributes(attribute.String("gemini.error_message", err.Error()))
		return "", err
	}
	if resp.UsageMetadata != nil {
		span.SetAttributes(attribute.Int("gemini.total_tokens", int(resp.UsageMetadata.TotalTokenCount)))
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	return strings.TrimSpace(sb.String()), nil
}

func (g *GoogleChat) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Package gemini implements integration with Google's Gemini AI API.
// It generates motivational reminder text and conversational chat replies.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/taskguru/taskguru/internal/config"
	"github.com/taskguru/taskguru/internal/database"
)

// Client defines the interface for AI operations used throughout the application.
type Client interface {
	// GenerateMotivation produces a short motivational reminder for the
	// given task description. It makes a single attempt bounded by the
	// context deadline; any failure is returned to the caller, which is
	// expected to fall back to a deterministic message.
	GenerateMotivation(ctx context.Context, description string) (string, error)

	// GenerateReply produces the next assistant turn for a chat
	// conversation given its recent history in chronological order.
	GenerateReply(ctx context.Context, history []database.ChatMessage) (string, error)
}

type sdkClient struct {
	genaiClient           *genai.Client
	log                   *slog.Logger
	contentConfig         *genai.GenerateContentConfig
	modelName             string
	chatInstruction       string
	motivationInstruction string
}

// NewClient creates a new Gemini AI client with the provided configuration.
// It initializes the connection to the Gemini API and sets up necessary parameters.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	baseCfg := &genai.GenerateContentConfig{
		Temperature: &cfg.Temperature,

		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
	}

	chatInstruction := cfg.ChatInstruction
	if chatInstruction == "" {
		chatInstruction = ChatSystemInstruction
	}
	motivationInstruction := cfg.MotivationInstruction
	if motivationInstruction == "" {
		motivationInstruction = MotivationSystemInstruction
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized successfully", "model", cfg.ModelName)

	return &sdkClient{
		genaiClient:           gi,
		log:                   logger,
		contentConfig:         baseCfg,
		modelName:             cfg.ModelName,
		chatInstruction:       chatInstruction,
		motivationInstruction: motivationInstruction,
	}, nil
}

func (c *sdkClient) GenerateMotivation(ctx context.Context, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("task description is required for motivation generation")
	}

	c.log.DebugContext(ctx, "Generating motivation", "description", description)

	prompt := BuildMotivationPrompt(description)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	cfg := c.configWithInstruction(c.motivationInstruction)

	resp, err := c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, cfg)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini motivation generation failed", "error", err)
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	return c.extractTextFromResponse(ctx, resp, "motivation")
}

func (c *sdkClient) GenerateReply(ctx context.Context, history []database.ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("chat history is required for reply generation")
	}

	c.log.DebugContext(ctx, "Generating chat reply", "message_count", len(history))

	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == database.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	cfg := c.configWithInstruction(c.chatInstruction)

	resp, err := c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, cfg)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini chat reply generation failed", "error", err)
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	return c.extractTextFromResponse(ctx, resp, "chat_reply")
}

func (c *sdkClient) configWithInstruction(instruction string) *genai.GenerateContentConfig {
	copyCfg := *c.contentConfig
	if instruction != "" {
		copyCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: instruction}},
		}
	}
	return &copyCfg
}

func (c *sdkClient) extractTextFromResponse(ctx context.Context, resp *genai.GenerateContentResponse, op string) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.ErrorContext(ctx, "Gemini request blocked", "operation", op, "reason", reasonMsg)
		return "", fmt.Errorf("%s blocked by safety filter: %s", op, reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "operation", op, "finish_reason", finishReason)
		return "", fmt.Errorf("%s returned no content, finish reason: %s", op, finishReason)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		c.log.WarnContext(ctx, "Gemini response text is empty", "operation", op)
		return "", fmt.Errorf("%s returned empty text", op)
	}

	return text, nil
}

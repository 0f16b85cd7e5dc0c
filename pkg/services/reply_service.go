package services

import (
	"context"
	"errors"
	"strings"

	config "dalal-chat-api/configs"
	"dalal-chat-api/pkg/groq"
	"dalal-chat-api/pkg/logger"
	"dalal-chat-api/pkg/models"
)

const replyTemperature float32 = 0.2

// ReplyGenerator produces the assistant's answer. It never fails: problems
// degrade to a canned text.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, prompt string, history []models.Message, lang models.Language) string
}

// Completer is the outbound chat-completion call.
type Completer interface {
	ChatCompletion(ctx context.Context, messages []groq.ChatMessage, temperature float32) (string, error)
}

// FallbackReplyGenerator answers without an LLM.
type FallbackReplyGenerator struct {
	prompts *config.PromptCatalog
}

func NewFallbackReplyGenerator(prompts *config.PromptCatalog) *FallbackReplyGenerator {
	return &FallbackReplyGenerator{prompts: prompts}
}

func (g *FallbackReplyGenerator) GenerateReply(_ context.Context, prompt string, _ []models.Message, lang models.Language) string {
	p := g.prompts.For(string(lang))
	if isPricingQuestion(prompt, g.prompts.PricingKeywords) {
		return p.PricingTip
	}
	return p.EchoReply(prompt)
}

func isPricingQuestion(prompt string, keywords []string) bool {
	lower := strings.ToLower(prompt)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// LLMReplyGenerator asks the chat-completion endpoint.
type LLMReplyGenerator struct {
	client  Completer
	prompts *config.PromptCatalog
	log     *logger.Logger
}

func NewLLMReplyGenerator(client Completer, prompts *config.PromptCatalog, log *logger.Logger) *LLMReplyGenerator {
	if log == nil {
		log = logger.Nop()
	}
	return &LLMReplyGenerator{client: client, prompts: prompts, log: log}
}

func (g *LLMReplyGenerator) GenerateReply(ctx context.Context, prompt string, history []models.Message, lang models.Language) string {
	p := g.prompts.For(string(lang))

	text, err := g.client.ChatCompletion(ctx, BuildCompletionMessages(p.System, history, prompt), replyTemperature)
	if err != nil {
		var statusErr *groq.StatusError
		if errors.As(err, &statusErr) {
			g.log.Error("Groq error", "status", statusErr.StatusCode, "body", statusErr.Body)
			return p.LLMError
		}
		g.log.Error("Groq request failed", "error", err)
		return p.RequestFailed
	}
	if text == "" {
		return g.prompts.EmptyReply
	}
	return text
}

// BuildCompletionMessages orders the request as system, history, prompt.
func BuildCompletionMessages(system string, history []models.Message, prompt string) []groq.ChatMessage {
	messages := make([]groq.ChatMessage, 0, len(history)+2)
	messages = append(messages, groq.ChatMessage{Role: "system", Content: system})
	for _, m := range history {
		messages = append(messages, groq.ChatMessage{Role: string(m.Role), Content: m.Text})
	}
	return append(messages, groq.ChatMessage{Role: string(models.RoleUser), Content: prompt})
}

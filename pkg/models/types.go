package models

import (
	"strings"
	"time"
)

// DefaultConversationID is used when a request carries no conversation id.
const DefaultConversationID = "default"

// Role is the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Language selects the system instruction and fallback texts.
type Language string

const (
	LangBangla  Language = "bn"
	LangEnglish Language = "en"
)

// ParseLanguage maps a request value to a Language. Blank and "bn" are
// Bangla, anything else English.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(LangBangla):
		return LangBangla
	default:
		return LangEnglish
	}
}

// Message is a single persisted chat turn.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           Role      `json:"role"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ConversationSummary is the sidebar view of a conversation: its most
// recent message.
type ConversationSummary struct {
	ConversationID string    `json:"conversationId"`
	LastAt         time.Time `json:"lastAt"`
	LastText       string    `json:"lastText"`
}

// NormalizeConversationID trims id and falls back to DefaultConversationID.
func NormalizeConversationID(id string) string {
	if id = strings.TrimSpace(id); id == "" {
		return DefaultConversationID
	}
	return id
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Text           string  `json:"text"`
	ConversationID *string `json:"conversationId"`
	Lang           string  `json:"lang"`
}

// ChatResponse carries the user message and the assistant reply, in that order.
type ChatResponse struct {
	Messages []Message `json:"messages"`
}

// Item is one prediction record. Its shape is owned by the prediction
// service, so it stays a loose JSON object here.
type Item map[string]any

// RequiredItemFields lists every field the prediction service needs.
var RequiredItemFields = []string{
	"category", "brand_tier", "condition", "season", "division", "delivery_zone",
	"seller_rating", "stock", "shipping_days", "demand_index",
	"competitor_price_bdt", "cost_bdt", "discount_pct",
	"clicks_last_7d", "views_last_7d", "conversions_last_7d", "time_on_market_days",
	"bkash_share", "nagad_share", "cod_share", "card_share",
	"is_weekend", "is_ramadan", "is_eid", "is_puja", "is_boishakh", "vat_included",
}

// PredictBatch is the body sent to the prediction service.
type PredictBatch struct {
	Items []Item `json:"items"`
}

// ModelHealth reports the outcome of a prediction-service probe.
type ModelHealth struct {
	OK     bool `json:"ok"`
	Status int  `json:"status"`
	Body   any  `json:"body"`
}

// EnvStatus is the secret-free view served by /api/debug/env.
type EnvStatus struct {
	Groq       bool   `json:"groq"`
	Model      string `json:"model"`
	PredictURL bool   `json:"predictUrl"`
}

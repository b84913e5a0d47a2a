package models

import "time"

// Response sources. Every resolved response is tagged with exactly one.
const (
	SourceGreeting = "greeting"
	SourceFAQ      = "faq"
	SourceOpenAI   = "openai"
	SourceFallback = "fallback"
	SourceError    = "error"
)

// Chat roles as used in LLM message sequences.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// FAQEntry is a single question/answer pair loaded from a FAQ source.
// Entries are immutable once loaded; duplicates are tolerated and resolved
// by load order.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ChatMessage is one turn of conversation history. The resolver passes
// history through to the LLM gateway opaquely; the caller owns it.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResolvedResponse is the structured result of a single resolution call.
type ResolvedResponse struct {
	Answer      string  `json:"answer"`
	Source      string  `json:"source"`
	Score       float64 `json:"score,omitempty"`
	OfferTicket bool    `json:"offer_ticket,omitempty"`
}

// Ticket is a support-ticket record. The id is derived from the creation
// timestamp at seconds resolution; uniqueness under sub-second concurrent
// creation is best-effort.
type Ticket struct {
	ID        int64     `json:"id"`
	Query     string    `json:"query"`
	Contact   string    `json:"contact"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketStatusOpen is the only status this system ever writes; transitions
// belong to whatever consumes the ticket log.
const TicketStatusOpen = "open"

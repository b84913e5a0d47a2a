// Package resolver turns a raw user utterance into a structured response.
// Each call walks a fixed decision order and stops at the first match:
// greeting, confident FAQ hit, LLM completion, canned fallback.
package resolver

import (
	"context"
	"strings"

	"github.com/xaenox/support-bot/internal/faq"
	"github.com/xaenox/support-bot/internal/gateway"
	"github.com/xaenox/support-bot/internal/models"
	"github.com/xaenox/support-bot/internal/ticket"
	"go.uber.org/zap"
)

// ConfidenceThreshold is the minimum similarity score at which a FAQ answer
// is trusted without consulting the LLM.
const ConfidenceThreshold = 0.65

// historyWindow bounds how much caller-supplied chat history is forwarded
// to the LLM.
const historyWindow = 6

// DefaultGreetings are matched as case-insensitive prefixes of the query.
var DefaultGreetings = []string{"hi", "hello", "hey", "good morning", "good afternoon"}

// Canned replies. User-visible failures are always soft: the worst case is
// an apology plus a ticket offer.
const (
	greetingAnswer = "Hi! How can I help you today?"
	notSureAnswer  = "Sorry, I am not sure about that. Would you like me to create a support ticket?"
	errorAnswer    = "Sorry, I couldn't reach the AI service right now."
	fallbackAnswer = "Sorry, I didn't understand that. Could you rephrase or ask a different question?"

	systemPrompt = "You are a helpful customer support assistant. Answer concisely. " +
		"If unsure, ask a clarifying question or offer to create a support ticket."
)

// uncertaintyPhrases in a completion downgrade it to a ticket offer. The
// match is deliberately case-sensitive.
var uncertaintyPhrases = []string{"I don't know", "I am not sure"}

// Resolver orchestrates the response pipeline. A nil gateway means no LLM
// credential is configured and the pipeline runs in pure FAQ/fallback mode.
type Resolver struct {
	store     *faq.Store
	recorder  ticket.Recorder
	gateway   gateway.Gateway
	greetings []string
	logger    *zap.Logger
}

// New creates a resolver. gw may be nil; greetings defaults to
// DefaultGreetings when empty.
func New(store *faq.Store, recorder ticket.Recorder, gw gateway.Gateway, greetings []string, logger *zap.Logger) *Resolver {
	if len(greetings) == 0 {
		greetings = DefaultGreetings
	}
	return &Resolver{
		store:     store,
		recorder:  recorder,
		gateway:   gw,
		greetings: greetings,
		logger:    logger,
	}
}

// GetResponse resolves a query against the pipeline. It never returns an
// error: internal failures become canned responses with a ticket offer.
func (r *Resolver) GetResponse(ctx context.Context, query string, history []models.ChatMessage) models.ResolvedResponse {
	if r.isGreeting(query) {
		return models.ResolvedResponse{Answer: greetingAnswer, Source: models.SourceGreeting}
	}

	answer, score, ok := r.store.Retrieve(query)
	hasFAQ := ok && answer != ""
	if hasFAQ && score >= ConfidenceThreshold {
		return models.ResolvedResponse{Answer: answer, Source: models.SourceFAQ, Score: score}
	}

	if r.gateway != nil {
		return r.completeWithLLM(ctx, query, history, answer, score, hasFAQ)
	}

	// No LLM configured: a sub-threshold FAQ answer is still better than
	// nothing, so it is returned as-is. Intentional last resort.
	if hasFAQ {
		return models.ResolvedResponse{Answer: answer, Source: models.SourceFAQ, Score: score}
	}
	return models.ResolvedResponse{Answer: fallbackAnswer, Source: models.SourceFallback, OfferTicket: true}
}

// CreateTicket records a support ticket for the given query. contact may be
// empty.
func (r *Resolver) CreateTicket(ctx context.Context, query, contact string) (*models.Ticket, error) {
	return r.recorder.Create(ctx, query, contact)
}

func (r *Resolver) completeWithLLM(ctx context.Context, query string, history []models.ChatMessage, faqAnswer string, score float64, hasFAQ bool) models.ResolvedResponse {
	messages := make([]models.ChatMessage, 0, historyWindow+3)
	messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: systemPrompt})
	if hasFAQ {
		messages = append(messages, models.ChatMessage{
			Role:    models.RoleSystem,
			Content: "Relevant FAQ: " + faqAnswer,
		})
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	messages = append(messages, history...)
	messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: query})

	text, err := r.gateway.Complete(ctx, messages)
	if err != nil {
		r.logger.Warn("llm completion failed, offering ticket", zap.Error(err))
		return models.ResolvedResponse{Answer: errorAnswer, Source: models.SourceError, OfferTicket: true}
	}
	for _, phrase := range uncertaintyPhrases {
		if strings.Contains(text, phrase) {
			return models.ResolvedResponse{Answer: notSureAnswer, Source: models.SourceFallback, OfferTicket: true}
		}
	}
	// carry the sub-threshold FAQ score through for caller context
	return models.ResolvedResponse{Answer: text, Source: models.SourceOpenAI, Score: score}
}

func (r *Resolver) isGreeting(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, g := range r.greetings {
		if strings.HasPrefix(q, g) {
			return true
		}
	}
	return false
}

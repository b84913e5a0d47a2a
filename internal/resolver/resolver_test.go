package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/support-bot/internal/faq"
	"github.com/xaenox/support-bot/internal/models"
	"go.uber.org/zap"
)

// stubGateway implements gateway.Gateway and records every invocation.
type stubGateway struct {
	reply    string
	err      error
	calls    int
	messages []models.ChatMessage
}

func (g *stubGateway) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	g.calls++
	g.messages = messages
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

// stubRecorder implements ticket.Recorder in memory.
type stubRecorder struct {
	created []*models.Ticket
}

func (r *stubRecorder) Create(ctx context.Context, query, contact string) (*models.Ticket, error) {
	t := &models.Ticket{ID: int64(len(r.created) + 1), Query: query, Contact: contact, Status: models.TicketStatusOpen}
	r.created = append(r.created, t)
	return t, nil
}

func (r *stubRecorder) List(ctx context.Context, limit int) ([]models.Ticket, error) {
	return nil, nil
}

func (r *stubRecorder) Close() error { return nil }

func newTestStore(t *testing.T, useIndex bool, entries ...models.FAQEntry) *faq.Store {
	t.Helper()
	content := "question,answer\n"
	for _, e := range entries {
		content += fmt.Sprintf("%q,%q\n", e.Question, e.Answer)
	}
	path := filepath.Join(t.TempDir(), "faqs.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := faq.NewStore(useIndex, zap.NewNop())
	if len(entries) > 0 {
		require.NoError(t, s.Load(path))
	}
	return s
}

var passwordFAQ = models.FAQEntry{
	Question: "How do I reset my password?",
	Answer:   "Go to Settings > Reset Password.",
}

func TestGetResponse_Greeting(t *testing.T) {
	r := New(newTestStore(t, true, passwordFAQ), &stubRecorder{}, nil, nil, zap.NewNop())

	queries := []string{"Hi there", "hello", "  HEY you", "Good morning team", "good afternoon"}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			resp := r.GetResponse(context.Background(), q, nil)
			assert.Equal(t, models.SourceGreeting, resp.Source)
			assert.Equal(t, "Hi! How can I help you today?", resp.Answer)
			assert.False(t, resp.OfferTicket)
		})
	}
}

func TestGetResponse_ConfidentFAQSkipsGateway(t *testing.T) {
	gw := &stubGateway{reply: "should never be used"}
	r := New(newTestStore(t, true, passwordFAQ), &stubRecorder{}, gw, nil, zap.NewNop())

	resp := r.GetResponse(context.Background(), "How do I reset my password?", nil)

	assert.Equal(t, models.SourceFAQ, resp.Source)
	assert.Equal(t, passwordFAQ.Answer, resp.Answer)
	assert.GreaterOrEqual(t, resp.Score, ConfidenceThreshold)
	assert.Zero(t, gw.calls, "gateway must not be invoked when the threshold is met")
}

func TestGetResponse_NoGatewayNoMatch(t *testing.T) {
	r := New(newTestStore(t, true), &stubRecorder{}, nil, nil, zap.NewNop())

	resp := r.GetResponse(context.Background(), "where is my order", nil)

	assert.Equal(t, models.SourceFallback, resp.Source)
	assert.True(t, resp.OfferTicket)
}

func TestGetResponse_NoGatewaySubThresholdFAQ(t *testing.T) {
	// lexical matching caps the score at 0.5, below the threshold; with no
	// LLM configured the answer is returned anyway as a last resort
	r := New(newTestStore(t, false, passwordFAQ), &stubRecorder{}, nil, nil, zap.NewNop())

	resp := r.GetResponse(context.Background(), "please reset my account", nil)

	assert.Equal(t, models.SourceFAQ, resp.Source)
	assert.Equal(t, passwordFAQ.Answer, resp.Answer)
	assert.Equal(t, 0.5, resp.Score)
	assert.False(t, resp.OfferTicket)
}

func TestGetResponse_GatewaySuccess(t *testing.T) {
	gw := &stubGateway{reply: "You can change the plan from the billing page."}
	r := New(newTestStore(t, false, passwordFAQ), &stubRecorder{}, gw, nil, zap.NewNop())

	resp := r.GetResponse(context.Background(), "can i change my plan", nil)

	assert.Equal(t, models.SourceOpenAI, resp.Source)
	assert.Equal(t, gw.reply, resp.Answer)
	assert.False(t, resp.OfferTicket)
	assert.Equal(t, 1, gw.calls)
}

func TestGetResponse_GatewayCarriesSubThresholdScore(t *testing.T) {
	gw := &stubGateway{reply: "Here is what I found."}
	r := New(newTestStore(t, false, passwordFAQ), &stubRecorder{}, gw, nil, zap.NewNop())

	resp := r.GetResponse(context.Background(), "please reset my account", nil)

	require.Equal(t, models.SourceOpenAI, resp.Source)
	assert.Equal(t, 0.5, resp.Score)

	// the sub-threshold FAQ answer rides along as context
	require.GreaterOrEqual(t, len(gw.messages), 2)
	assert.Equal(t, models.RoleSystem, gw.messages[1].Role)
	assert.Equal(t, "Relevant FAQ: "+passwordFAQ.Answer, gw.messages[1].Content)
}

func TestGetResponse_GatewayUncertainty(t *testing.T) {
	tests := []struct {
		name          string
		reply         string
		wantSource    string
		wantDowngrade bool
	}{
		{"dont know", "I don't know the answer to that.", models.SourceFallback, true},
		{"not sure", "Honestly, I am not sure.", models.SourceFallback, true},
		{"case sensitive", "i don't know, but let me guess.", models.SourceOpenAI, false},
		{"confident", "Press the red button.", models.SourceOpenAI, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &stubGateway{reply: tt.reply}
			r := New(newTestStore(t, true), &stubRecorder{}, gw, nil, zap.NewNop())

			resp := r.GetResponse(context.Background(), "something obscure", nil)
			assert.Equal(t, tt.wantSource, resp.Source)
			assert.Equal(t, tt.wantDowngrade, resp.OfferTicket)
			if tt.wantDowngrade {
				assert.Equal(t, "Sorry, I am not sure about that. Would you like me to create a support ticket?", resp.Answer)
			} else {
				assert.Equal(t, tt.reply, resp.Answer)
			}
		})
	}
}

func TestGetResponse_GatewayFailureIsSoft(t *testing.T) {
	gw := &stubGateway{err: errors.New("connection refused")}
	r := New(newTestStore(t, true), &stubRecorder{}, gw, nil, zap.NewNop())

	resp := r.GetResponse(context.Background(), "something obscure", nil)

	assert.Equal(t, models.SourceError, resp.Source)
	assert.True(t, resp.OfferTicket)
	assert.Equal(t, "Sorry, I couldn't reach the AI service right now.", resp.Answer)
}

func TestGetResponse_HistoryWindow(t *testing.T) {
	gw := &stubGateway{reply: "ok"}
	r := New(newTestStore(t, true), &stubRecorder{}, gw, nil, zap.NewNop())

	history := make([]models.ChatMessage, 10)
	for i := range history {
		history[i] = models.ChatMessage{Role: models.RoleUser, Content: fmt.Sprintf("turn %d", i)}
	}

	r.GetResponse(context.Background(), "the question", history)

	// system prompt + last 6 history turns + the query itself
	require.Len(t, gw.messages, 8)
	assert.Equal(t, models.RoleSystem, gw.messages[0].Role)
	assert.Equal(t, "turn 4", gw.messages[1].Content)
	assert.Equal(t, "turn 9", gw.messages[6].Content)
	assert.Equal(t, models.RoleUser, gw.messages[7].Role)
	assert.Equal(t, "the question", gw.messages[7].Content)
}

func TestGetResponse_ShortHistoryPassedVerbatim(t *testing.T) {
	gw := &stubGateway{reply: "ok"}
	r := New(newTestStore(t, true), &stubRecorder{}, gw, nil, zap.NewNop())

	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "earlier question"},
		{Role: models.RoleAssistant, Content: "earlier answer"},
	}
	r.GetResponse(context.Background(), "follow-up", history)

	require.Len(t, gw.messages, 4)
	assert.Equal(t, "earlier question", gw.messages[1].Content)
	assert.Equal(t, "earlier answer", gw.messages[2].Content)
}

func TestCreateTicket(t *testing.T) {
	rec := &stubRecorder{}
	r := New(newTestStore(t, true), rec, nil, nil, zap.NewNop())

	ticket, err := r.CreateTicket(context.Background(), "nothing works", "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "nothing works", ticket.Query)
	assert.Equal(t, "user@example.com", ticket.Contact)
	require.Len(t, rec.created, 1)
}

func TestGetResponse_CustomGreetings(t *testing.T) {
	r := New(newTestStore(t, true), &stubRecorder{}, nil, []string{"howdy"}, zap.NewNop())

	resp := r.GetResponse(context.Background(), "Howdy partner", nil)
	assert.Equal(t, models.SourceGreeting, resp.Source)

	// the default set no longer applies
	resp = r.GetResponse(context.Background(), "hello", nil)
	assert.NotEqual(t, models.SourceGreeting, resp.Source)
}

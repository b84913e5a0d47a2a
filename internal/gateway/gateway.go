// Package gateway wraps the external chat-completion API behind a single
// call boundary. The service is treated as untrusted: every transport,
// auth, or payload problem comes back as an ordinary error, never a panic
// or a raw SDK type.
package gateway

import (
	"context"

	"github.com/xaenox/support-bot/internal/models"
)

// Gateway performs one synchronous completion request.
type Gateway interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)
}

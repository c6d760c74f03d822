// Package chat drives one conversation step: validate, record the user turn,
// call the completion client, record the reply.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ent0n29/hfchat/internal/completion"
	"github.com/ent0n29/hfchat/internal/observability"
	"github.com/ent0n29/hfchat/internal/policy"
	"github.com/ent0n29/hfchat/internal/session"
)

var ErrEmptyMessage = errors.New("message is empty")

// Completer is satisfied by *completion.Client.
type Completer interface {
	Complete(ctx context.Context, userText, credential string) (string, error)
}

// Exchange is the pair of turns recorded by a successful Submit.
type Exchange struct {
	User      session.Turn `json:"user"`
	Assistant session.Turn `json:"assistant"`
}

type Service struct {
	completer Completer
	metrics   *observability.Metrics
}

func NewService(completer Completer, metrics *observability.Metrics) *Service {
	return &Service{completer: completer, metrics: metrics}
}

// Submit runs one user submission against sess. A missing credential or empty
// text leaves history untouched. Any other failure leaves exactly the new user
// turn recorded and no assistant turn.
func (s *Service) Submit(ctx context.Context, sess *session.Session, text string) (Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Exchange{}, ErrEmptyMessage
	}
	credential := sess.Credential()
	if credential == "" {
		return Exchange{}, completion.ErrMissingCredential
	}

	userTurn := session.Turn{Role: session.RoleUser, Content: text}
	sess.Append(userTurn)

	start := time.Now()
	reply, err := s.completer.Complete(ctx, text, credential)
	s.metrics.ObserveCompletion(completion.Kind(err), time.Since(start))
	if err != nil {
		redacted, _ := policy.RedactCredential(err.Error(), credential)
		log.Printf("completion failed session=%s kind=%s: %s", sess.ID, completion.Kind(err), redacted)
		return Exchange{User: userTurn}, err
	}

	assistantTurn := session.Turn{Role: session.RoleAssistant, Content: reply}
	sess.Append(assistantTurn)
	return Exchange{User: userTurn, Assistant: assistantTurn}, nil
}

// NewConversation clears the turns of sess. The credential is kept.
func (s *Service) NewConversation(sess *session.Session) {
	sess.Clear()
}

// UserMessage renders err as the text shown to the user, with any credential
// material removed.
func UserMessage(err error, credential string) string {
	var (
		msg          string
		statusErr    *completion.HTTPStatusError
		transportErr *completion.TransportError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, completion.ErrMissingCredential):
		msg = "Please enter your HuggingFace API key in the sidebar."
	case errors.Is(err, ErrEmptyMessage):
		msg = "Please type a message first."
	case errors.As(err, &statusErr):
		msg = fmt.Sprintf("Error: API returned status code %d", statusErr.StatusCode)
	case errors.As(err, &transportErr):
		msg = fmt.Sprintf("Request Error: %v", transportErr.Err)
	case errors.Is(err, completion.ErrMalformedResponse):
		msg = "Failed to get a valid response from the API."
	default:
		msg = fmt.Sprintf("Request Error: %v", err)
	}
	redacted, _ := policy.RedactCredential(msg, credential)
	return redacted
}

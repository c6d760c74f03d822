package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ent0n29/hfchat/internal/chat"
	"github.com/ent0n29/hfchat/internal/completion"
	"github.com/ent0n29/hfchat/internal/session"
)

const sessionCookieName = "hfchat_session"

type credentialRequest struct {
	Credential string `json:"credential"`
}

type messageRequest struct {
	Text string `json:"text"`
}

// chatErrorResponse carries the transcript alongside the error so the client
// can render the unanswered user turn.
type chatErrorResponse struct {
	Error string         `json:"error"`
	Code  string         `json:"code"`
	Turns []session.Turn `json:"turns"`
}

type messageResponse struct {
	Reply string         `json:"reply"`
	Turns []session.Turn `json:"turns"`
}

// sessionFor resolves the caller's session from the session cookie, minting a
// new one (and setting the cookie) when it is missing or expired.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(sessionCookieName); err == nil {
		id = c.Value
	}
	sess, created := s.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, s.sessionCookie(sess.ID))
		s.observeSessionEvent("created")
	}
	return sess
}

func (s *Server) sessionCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func (s *Server) observeSessionEvent(event string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues(event).Inc()
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	respondJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session cookie")
		return
	}
	if err := s.sessions.End(c.Value); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	s.observeSessionEvent("ended")

	expired := s.sessionCookie("")
	expired.MaxAge = -1
	http.SetCookie(w, expired)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Credential) == "" {
		respondError(w, http.StatusBadRequest, "invalid_credential", "credential must not be empty")
		return
	}
	sess := s.sessionFor(w, r)
	sess.SetCredential(req.Credential)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	sess := s.sessionFor(w, r)

	// The call is not cancelled if the browser goes away; the reply is still recorded.
	ctx := context.WithoutCancel(r.Context())
	ex, err := s.chat.Submit(ctx, sess, req.Text)
	if err != nil {
		respondJSON(w, statusForError(err), chatErrorResponse{
			Error: chat.UserMessage(err, sess.Credential()),
			Code:  errorCode(err),
			Turns: sess.Turns(),
		})
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{
		Reply: ex.Assistant.Content,
		Turns: sess.Turns(),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	s.chat.NewConversation(sess)
	respondJSON(w, http.StatusOK, sess.View())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, completion.ErrMissingCredential), errors.Is(err, chat.ErrEmptyMessage):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func errorCode(err error) string {
	if errors.Is(err, chat.ErrEmptyMessage) {
		return "empty_message"
	}
	return completion.Kind(err)
}

package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ent0n29/hfchat/internal/chat"
	"github.com/ent0n29/hfchat/internal/protocol"
	"github.com/ent0n29/hfchat/internal/session"
)

// handleChatWS serves the chat over a websocket. Client messages are handled
// one at a time on the read loop, so a submission blocks further input until
// its reply (or error) has been written.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	var id string
	if c, err := r.Cookie(sessionCookieName); err == nil {
		id = c.Value
	}
	if q := strings.TrimSpace(r.URL.Query().Get("session_id")); q != "" {
		id = q
	}
	sess, created := s.sessions.GetOrCreate(id)

	header := http.Header{}
	if created {
		header.Add("Set-Cookie", s.sessionCookie(sess.ID).String())
	}
	conn, err := s.upgrader.Upgrade(w, r, header)
	if err != nil {
		return
	}
	defer conn.Close()

	if created {
		s.observeSessionEvent("created")
	}
	s.observeSessionEvent("ws_connected")
	defer s.observeSessionEvent("ws_disconnected")

	ctx := context.WithoutCancel(r.Context())
	conn.SetReadLimit(64 << 10)

	if err := s.writeWS(conn, protocol.NewHistory(sess.View())); err != nil {
		return
	}

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			if werr := s.writeWS(conn, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: sess.ID,
				Code:      "invalid_client_message",
				Detail:    err.Error(),
			}); werr != nil {
				return
			}
			continue
		}
		s.countWS("inbound", parsed)

		if err := s.dispatchWS(ctx, conn, sess, parsed); err != nil {
			return
		}
	}
}

func (s *Server) dispatchWS(ctx context.Context, conn *websocket.Conn, sess *session.Session, msg any) error {
	switch m := msg.(type) {
	case protocol.SetCredential:
		sess.SetCredential(m.Credential)
		return s.writeWS(conn, protocol.NewHistory(sess.View()))
	case protocol.NewConversation:
		s.chat.NewConversation(sess)
		return s.writeWS(conn, protocol.NewHistory(sess.View()))
	case protocol.UserMessage:
		ex, err := s.chat.Submit(ctx, sess, m.Text)
		if ex.User.Content != "" {
			if werr := s.writeWS(conn, protocol.Turn{Type: protocol.TypeTurn, SessionID: sess.ID, Turn: ex.User}); werr != nil {
				return werr
			}
		}
		if err != nil {
			return s.writeWS(conn, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: sess.ID,
				Code:      errorCode(err),
				Detail:    chat.UserMessage(err, sess.Credential()),
			})
		}
		return s.writeWS(conn, protocol.Turn{Type: protocol.TypeTurn, SessionID: sess.ID, Turn: ex.Assistant})
	default:
		return errors.New("unhandled client message")
	}
}

func (s *Server) writeWS(conn *websocket.Conn, msg any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteJSON(msg); err != nil {
		return err
	}
	s.countWS("outbound", msg)
	return nil
}

func (s *Server) countWS(direction string, msg any) {
	if s.metrics == nil {
		return
	}
	if t, ok := messageTypeOf(msg); ok {
		s.metrics.WSMessages.WithLabelValues(direction, string(t)).Inc()
	}
}

func messageTypeOf(v any) (protocol.MessageType, bool) {
	switch m := v.(type) {
	case protocol.SetCredential:
		return m.Type, true
	case protocol.UserMessage:
		return m.Type, true
	case protocol.NewConversation:
		return m.Type, true
	case protocol.History:
		return m.Type, true
	case protocol.Turn:
		return m.Type, true
	case protocol.ErrorEvent:
		return m.Type, true
	default:
		return "", false
	}
}

package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ent0n29/hfchat/internal/session"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeSetCredential   MessageType = "set_credential"
	TypeUserMessage     MessageType = "user_message"
	TypeNewConversation MessageType = "new_conversation"

	TypeHistory    MessageType = "history"
	TypeTurn       MessageType = "turn"
	TypeErrorEvent MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

type SetCredential struct {
	Type       MessageType `json:"type"`
	Credential string      `json:"credential"`
}

type UserMessage struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

type NewConversation struct {
	Type MessageType `json:"type"`
}

// History carries the full transcript; sent on connect and after a reset.
type History struct {
	Type          MessageType    `json:"type"`
	SessionID     string         `json:"session_id"`
	Turns         []session.Turn `json:"turns"`
	HasCredential bool           `json:"has_credential"`
}

type Turn struct {
	Type      MessageType  `json:"type"`
	SessionID string       `json:"session_id"`
	Turn      session.Turn `json:"turn"`
}

type ErrorEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Detail    string      `json:"detail"`
}

func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeSetCredential:
		var msg SetCredential
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if strings.TrimSpace(msg.Credential) == "" {
			return nil, errors.New("invalid set_credential")
		}
		return msg, nil
	case TypeUserMessage:
		var msg UserMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TypeNewConversation:
		return NewConversation{Type: TypeNewConversation}, nil
	default:
		return nil, ErrUnsupportedType
	}
}

func NewHistory(v session.View) History {
	turns := v.Turns
	if turns == nil {
		turns = []session.Turn{}
	}
	return History{
		Type:          TypeHistory,
		SessionID:     v.SessionID,
		Turns:         turns,
		HasCredential: v.HasCredential,
	}
}

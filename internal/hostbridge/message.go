// Package hostbridge carries signals between the book and the page that
// embeds it: close-button toggles go out, navigation commands come in.
package hostbridge

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType names a bridge message.
type MessageType string

const (
	// ToggleCloseButton asks the host frame to hide or show its close button.
	ToggleCloseButton MessageType = "TOGGLE_CLOSE_BUTTON"

	FlipNext      MessageType = "FLIP_NEXT"
	FlipPrev      MessageType = "FLIP_PREV"
	JumpToSection MessageType = "JUMP_TO_SECTION"
)

// ErrUnknownMessage is returned when an inbound payload is not a navigation command.
var ErrUnknownMessage = errors.New("hostbridge: unknown message")

// Message is the JSON envelope exchanged with the host frame.
type Message struct {
	Type  MessageType `json:"type"`
	Show  *bool       `json:"show,omitempty"`
	Label string      `json:"label,omitempty"`
}

// CloseButton builds the outbound toggle.
func CloseButton(show bool) Message {
	return Message{Type: ToggleCloseButton, Show: &show}
}

// Inbound reports whether the message is a navigation command.
func (m Message) Inbound() bool {
	switch m.Type {
	case FlipNext, FlipPrev, JumpToSection:
		return true
	}
	return false
}

// Decode parses an inbound command.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("decoding bridge message: %w", err)
	}
	if !msg.Inbound() {
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	if msg.Type == JumpToSection && msg.Label == "" {
		return Message{}, fmt.Errorf("%w: %s without label", ErrUnknownMessage, msg.Type)
	}
	return msg, nil
}

// Notifier delivers outbound messages to the host frame. Post never blocks.
type Notifier interface {
	Post(Message)
}

// NopNotifier drops every message. It stands in when the bridge is off.
type NopNotifier struct{}

func (NopNotifier) Post(Message) {}

package dispatch

import "sync"

// MessageType classifies flash messages.
type MessageType string

const (
	MessageStatus  MessageType = "status"
	MessageWarning MessageType = "warning"
	MessageError   MessageType = "error"
)

// Message is one flash message.
type Message struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

// Messenger receives flash messages produced by the submission effect.
type Messenger interface {
	Add(msg Message)
}

// MessengerFunc adapts a function to Messenger.
type MessengerFunc func(Message)

// Add implements Messenger.
func (f MessengerFunc) Add(msg Message) { f(msg) }

// FlashMessenger collects messages for one interaction.
type FlashMessenger struct {
	mu       sync.Mutex
	messages []Message
}

// Add implements Messenger.
func (m *FlashMessenger) Add(msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

// Drain returns the collected messages and clears the buffer.
func (m *FlashMessenger) Drain() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.messages
	m.messages = nil
	return out
}

type discardMessenger struct{}

func (discardMessenger) Add(Message) {}

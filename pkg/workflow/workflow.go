// Package workflow hands data between pipeline stages through a single-slot
// mailbox: one publisher addresses a payload to a named stage, and the first
// consume by that stage takes the payload and empties the slot. A later
// publish overwrites an unconsumed payload.
package workflow

import "sync"

// Message is a payload in transit between stages.
type Message[T any] struct {
	Data   T
	Source string
	Target string
}

// Mailbox is a single-slot, consume-at-most-once channel between stages.
// Safe for concurrent use.
type Mailbox[T any] struct {
	mu      sync.Mutex
	message Message[T]
	full    bool
}

// NewMailbox returns an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{}
}

// Send places a payload addressed to target, replacing any unconsumed one.
func (m *Mailbox[T]) Send(data T, source, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.message = Message[T]{Data: data, Source: source, Target: target}
	m.full = true
}

// Receive takes the pending payload if it is addressed to the given stage.
// On success the slot is emptied, so a second Receive returns false.
func (m *Mailbox[T]) Receive(stage string) (Message[T], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full || m.message.Target != stage {
		return Message[T]{}, false
	}
	msg := m.message
	m.message = Message[T]{}
	m.full = false
	return msg, true
}

// Clear empties the slot unconditionally.
func (m *Mailbox[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.message = Message[T]{}
	m.full = false
}

// Package domain contains core concepts of the chat client.
// This file defines the Message entity exchanged in a group.
// Messages are immutable and never mutated or deleted once created.
package domain

type MessageID int64

// Message belongs to exactly one group.
//
// CreatedAt is kept as the raw RFC 3339 string received from the backend
// (assumed UTC at the source). Parsing is deferred to the timeline transform
// so a malformed timestamp can be skipped there instead of failing the
// whole decode.
type Message struct {
	ID          MessageID
	GroupID     GroupID
	SenderEmail string
	Body        string
	CreatedAt   string
}

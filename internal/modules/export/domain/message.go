package domain

import "time"

// Message is a single chat message as retrieved from Telegram. Messages are
// read-only snapshots; nothing in the pipeline mutates them after retrieval.
type Message struct {
	ID       int64     `json:"message_id"`
	Date     time.Time `json:"date"`
	SenderID int64     `json:"sender_id"`
	Text     string    `json:"message"`
	MediaRef string    `json:"media_ref,omitempty"`
}

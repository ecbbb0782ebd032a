package domain

import "time"

// Archive is the self-describing JSON artifact written per identifier per
// run. A new run always produces a new archive; existing ones are never
// updated in place.
type Archive struct {
	Identifier   string    `json:"identifier"`
	Window       Window    `json:"window"`
	GeneratedAt  time.Time `json:"generated_at"`
	MessageCount int       `json:"message_count"`
	Messages     []Message `json:"messages"`
}

func NewArchive(identifier string, window Window, messages []Message) *Archive {
	if messages == nil {
		messages = []Message{}
	}
	return &Archive{
		Identifier:   identifier,
		Window:       window,
		GeneratedAt:  time.Now().UTC(),
		MessageCount: len(messages),
		Messages:     messages,
	}
}

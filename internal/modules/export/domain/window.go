package domain

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/avolkov/tgarchive/internal/shared/errors"
)

const dateLayout = "2006-01-02"

// Window is an optional inclusive date range. A zero bound means unbounded on
// that side; both bounds are civil dates pinned to UTC midnight.
type Window struct {
	From time.Time
	To   time.Time
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date format %q, use YYYY-MM-DD", apperrors.ErrInvalidWindow, s)
	}
	return t, nil
}

// NewWindow builds a Window from optional YYYY-MM-DD bounds. Empty strings
// leave the side unbounded. A from bound after the to bound is rejected.
func NewWindow(from, to string) (Window, error) {
	var w Window
	var err error
	if from != "" {
		if w.From, err = ParseDate(from); err != nil {
			return Window{}, err
		}
	}
	if to != "" {
		if w.To, err = ParseDate(to); err != nil {
			return Window{}, err
		}
	}
	if !w.From.IsZero() && !w.To.IsZero() && w.From.After(w.To) {
		return Window{}, fmt.Errorf("%w: from %s is after to %s", apperrors.ErrInvalidWindow, from, to)
	}
	return w, nil
}

// IsZero reports whether both bounds are absent.
func (w Window) IsZero() bool {
	return w.From.IsZero() && w.To.IsZero()
}

// Contains reports whether the UTC date component of t lies within the
// window, inclusive on both ends.
func (w Window) Contains(t time.Time) bool {
	d := dateOf(t)
	if !w.From.IsZero() && d.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && d.After(w.To) {
		return false
	}
	return true
}

func (w Window) MarshalJSON() ([]byte, error) {
	bounds := struct {
		From string `json:"from,omitempty"`
		To   string `json:"to,omitempty"`
	}{}
	if !w.From.IsZero() {
		bounds.From = w.From.Format(dateLayout)
	}
	if !w.To.IsZero() {
		bounds.To = w.To.Format(dateLayout)
	}
	return json.Marshal(bounds)
}

func (w *Window) UnmarshalJSON(data []byte) error {
	bounds := struct {
		From string `json:"from"`
		To   string `json:"to"`
	}{}
	if err := json.Unmarshal(data, &bounds); err != nil {
		return err
	}
	parsed, err := NewWindow(bounds.From, bounds.To)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

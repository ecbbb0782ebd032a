package domain

import "context"

// Stream is a single-pass, forward-only sequence of messages. Next advances
// the stream and reports whether a message is available via Message; once it
// returns false the stream is exhausted and Err holds the terminating error,
// if any. Streams are not restartable.
type Stream interface {
	Next(ctx context.Context) bool
	Message() Message
	Err() error
}

// Filter narrows s to messages whose date lies within w. The result is lazy
// and order-preserving; with an unbounded window s is returned unchanged.
func Filter(s Stream, w Window) Stream {
	if w.IsZero() {
		return s
	}
	return &filterStream{src: s, window: w}
}

type filterStream struct {
	src    Stream
	window Window
	cur    Message
}

func (f *filterStream) Next(ctx context.Context) bool {
	for f.src.Next(ctx) {
		if m := f.src.Message(); f.window.Contains(m.Date) {
			f.cur = m
			return true
		}
	}
	return false
}

func (f *filterStream) Message() Message { return f.cur }

func (f *filterStream) Err() error { return f.src.Err() }

// Collect drains s into a slice, preserving order. The returned slice is
// never nil so an empty history serializes as an empty JSON array.
func Collect(ctx context.Context, s Stream) ([]Message, error) {
	messages := []Message{}
	for s.Next(ctx) {
		messages = append(messages, s.Message())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// SliceStream adapts a fixed message slice to the Stream interface.
type SliceStream struct {
	messages []Message
	cur      Message
}

func NewSliceStream(messages []Message) *SliceStream {
	return &SliceStream{messages: messages}
}

func (s *SliceStream) Next(_ context.Context) bool {
	if len(s.messages) == 0 {
		return false
	}
	s.cur = s.messages[0]
	s.messages = s.messages[1:]
	return true
}

func (s *SliceStream) Message() Message { return s.cur }

func (s *SliceStream) Err() error { return nil }

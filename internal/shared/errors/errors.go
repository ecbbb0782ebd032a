// Package errors defines the error taxonomy shared across the pipeline.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrChatNotFound  = errors.New("chat not found or inaccessible")
	ErrStorage       = errors.New("archive storage failure")
	ErrSessionFatal  = errors.New("telegram session lost")
	ErrInvalidWindow = errors.New("invalid date window")
)

// ChatNotFoundError carries the identifier the messaging service could not
// resolve. Matches ErrChatNotFound under errors.Is.
type ChatNotFoundError struct {
	Identifier string
}

func (e *ChatNotFoundError) Error() string {
	return fmt.Sprintf("Chat '%s' not found or inaccessible.", e.Identifier)
}

func (e *ChatNotFoundError) Is(target error) bool {
	return target == ErrChatNotFound
}

// Storage tags err as a per-identifier persistence failure.
func Storage(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

// SessionFatal tags err as an unrecoverable session loss. Unlike the
// per-identifier errors above, this one aborts the whole batch run.
func SessionFatal(err error) error {
	return fmt.Errorf("%w: %v", ErrSessionFatal, err)
}

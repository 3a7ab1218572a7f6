package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUpstream        = errors.New("upstream failure")
)

var (
	ErrSenderNotFound    = fmt.Errorf("sender %w", ErrNotFound)
	ErrRecipientNotFound = fmt.Errorf("recipient %w", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrEmptyMessage      = fmt.Errorf("message must have text or image: %w", ErrInvalidArgument)
)

func upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}

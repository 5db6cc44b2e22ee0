package services

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrStoryNotFound        = errors.New("story not found")
	ErrSubscriptionRequired = errors.New("subscription required")
	ErrInvalidInput         = errors.New("invalid input")
	ErrRateLimitExceeded    = errors.New("story limit reached for today")
	ErrUsernameTaken        = errors.New("username or email already taken")
	ErrInvalidCaptcha       = errors.New("invalid captcha answer")
	ErrPersistence          = errors.New("database error")
	ErrPaymentProvider      = errors.New("payment failed")
	ErrPaymentNotConfirmed  = errors.New("payment not confirmed")
)

// Kind is the machine-checkable outcome of an operation.
type Kind int

const (
	KindOK Kind = iota
	KindUserNotFound
	KindStoryNotFound
	KindSubscriptionRequired
	KindInvalidInput
	KindRateLimitExceeded
	KindUsernameTaken
	KindInvalidCaptcha
	KindPersistence
	KindPaymentProvider
	KindPaymentNotConfirmed
	KindUnknown
)

var kindOrder = []struct {
	err  error
	kind Kind
}{
	{ErrUserNotFound, KindUserNotFound},
	{ErrStoryNotFound, KindStoryNotFound},
	{ErrSubscriptionRequired, KindSubscriptionRequired},
	{ErrInvalidInput, KindInvalidInput},
	{ErrRateLimitExceeded, KindRateLimitExceeded},
	{ErrUsernameTaken, KindUsernameTaken},
	{ErrInvalidCaptcha, KindInvalidCaptcha},
	{ErrPersistence, KindPersistence},
	{ErrPaymentProvider, KindPaymentProvider},
	{ErrPaymentNotConfirmed, KindPaymentNotConfirmed},
}

// KindOf classifies err. nil is KindOK.
func KindOf(err error) Kind {
	if err == nil {
		return KindOK
	}
	for _, k := range kindOrder {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// 字段校验失败的原因
const (
	FieldUsername   = "username"
	FieldEmail      = "email"
	FieldTitle      = "title"
	FieldStory      = "story"
	FieldStoryWords = "story_words"
	FieldComment    = "comment"
	FieldImage      = "image"
)

// ValidationError reports which field failed. It matches ErrInvalidInput.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field string) error {
	return &ValidationError{Field: field}
}

// InvalidField returns the failing field of a validation error, or "".
func InvalidField(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}

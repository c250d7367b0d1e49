package types

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to every error leaving the command and query layers.
const (
	TextCodeWriteFailed   = "WRITE_FAILED"
	TextCodeReadFailed    = "READ_FAILED"
	TextCodeNotFound      = "PROFILE_NOT_FOUND"
	TextCodeInvalidInput  = "INVALID_INPUT"
	TextCodeProfileExists = "PROFILE_EXISTS"
	TextCodeNotOwner      = "NOT_PROFILE_OWNER"
	TextCodeStoreTimeout  = "STORE_TIMEOUT"
)

// WriteError classifies a failed create/update/delete. Known sentinel causes
// keep their own category; anything else becomes WRITE_FAILED.
func WriteError(err error, message string) error {
	return classify(err, TextCodeWriteFailed, message)
}

// ReadError classifies a failed listing or aggregation.
func ReadError(err error, message string) error {
	return classify(err, TextCodeReadFailed, message)
}

// NotFoundError reports a missing profile.
func NotFoundError(message string) error {
	return goerrors.New(message, goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode(TextCodeNotFound)
}

// ValidationError reports caller input that cannot be accepted.
func ValidationError(err error, message string) error {
	if err == nil {
		return goerrors.New(message, goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(TextCodeInvalidInput)
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(TextCodeInvalidInput)
}

// HasTextCode reports whether err carries the supplied text code.
func HasTextCode(err error, code string) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}

// TextCode returns the text code carried by err, or "" for plain errors.
func TextCode(err error) string {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return ""
	}
	return rich.TextCode
}

func classify(err error, fallback, message string) error {
	if err == nil {
		return nil
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryInternal, message+": store deadline exceeded").
			WithCode(goerrors.CodeInternal).
			WithTextCode(TextCodeStoreTimeout)
	case errors.Is(err, ErrProfileNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, message).
			WithCode(goerrors.CodeNotFound).
			WithTextCode(TextCodeNotFound)
	case errors.Is(err, ErrProfileExists):
		return goerrors.Wrap(err, goerrors.CategoryValidation, message).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(TextCodeProfileExists)
	case errors.Is(err, ErrNotProfileOwner):
		return goerrors.Wrap(err, goerrors.CategoryAuthz, message).
			WithCode(goerrors.CodeForbidden).
			WithTextCode(TextCodeNotOwner)
	case errors.Is(err, ErrProfileDraftIncomplete),
		errors.Is(err, ErrProfileIDRequired),
		errors.Is(err, ErrActorRequired):
		return ValidationError(err, message)
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithCode(goerrors.CodeInternal).
		WithTextCode(fallback)
}

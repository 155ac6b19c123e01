package rag

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure by its origin. Kinds drive HTTP status
// mapping and logging; they never reach the caller as raw text.
type Kind string

const (
	KindInvalidInput         Kind = "invalid_input"
	KindEmbeddingUnavailable Kind = "embedding_unavailable"
	KindRetrievalFailed      Kind = "retrieval_failed"
	KindGenerationFailed     Kind = "generation_failed"
	KindInternal             Kind = "internal"
)

// Stage names the pipeline step a failure occurred in, for logs.
type Stage string

const (
	StageValidate Stage = "validate"
	StageEmbed    Stage = "embed"
	StageRetrieve Stage = "retrieve"
	StageAssemble Stage = "assemble"
	StageGenerate Stage = "generate"
)

// Error wraps an underlying failure with its kind and pipeline stage.
type Error struct {
	Kind  Kind
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

// StageOf returns the pipeline stage of err, or empty for unclassified errors.
func StageOf(err error) Stage {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Stage
	}
	return ""
}

// UserMessage returns the text safe to surface to a caller for err. Invalid
// input echoes the validation problem; everything else gets a generic apology
// so provider names, addresses, and stack details stay in the logs.
func UserMessage(err error) string {
	if KindOf(err) == KindInvalidInput {
		var pe *Error
		if errors.As(err, &pe) && pe.Err != nil {
			return pe.Err.Error()
		}
	}
	return "Sorry, something went wrong while answering your question. Please try again."
}

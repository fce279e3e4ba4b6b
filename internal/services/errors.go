package services

import "errors"

// ErrAIUnavailable is returned when no generation backend is configured.
var ErrAIUnavailable = errors.New("generation backend is not configured")

// ErrEmptyDeck marks a presentation that parsed fine but contains no usable
// text. Callers report it as a content problem, never as a blank document.
var ErrEmptyDeck = errors.New("presentation contains no extractable text")

// ExtractionError wraps any failure to turn an uploaded deck into a
// DeckExtraction, including the empty-deck case.
type ExtractionError struct {
	Message string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// GenerationError wraps any failure of the external model call. The cause is
// not distinguished further; generation is retried only by the caller.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

// RenderError marks the single unrecoverable rendering case: the output sink
// failed after the unstructured fallback had already been attempted.
type RenderError struct {
	Message string
	Err     error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error { return e.Err }

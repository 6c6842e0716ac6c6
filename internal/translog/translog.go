// Package translog defines the append-only translation log.
//
// Every attempted translation (hit or miss) is appended as a [Record]. Records
// are never updated; they are read back per session in insertion order.
// Storage failures surface as errors matching [ErrStorage] and are never
// retried inside this package.
//
// Implementations: [MemStore] (in-process), postgres.Store (PostgreSQL via
// pgx) and [Breaker], a decorator that fails fast while the backend is down.
// Every implementation must be safe for concurrent use.
package translog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit caps [Log.ListBySession] when the caller passes a
// non-positive limit.
const DefaultLimit = 100

// ErrStorage is matched (via [errors.Is]) by every error a [Log] returns
// because the backing store failed.
var ErrStorage = errors.New("translog: storage unavailable")

// StorageError wraps a backend failure with the operation that caused it.
// It matches [ErrStorage] and unwraps to the underlying cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("translog: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports whether target is [ErrStorage].
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Direction is the kind of translation a [Record] describes.
type Direction string

const (
	SignToSpeech Direction = "sign_to_speech"
	SpeechToSign Direction = "speech_to_sign"
	TextToSign   Direction = "text_to_sign"
)

// Directions lists every [Direction].
var Directions = []Direction{SignToSpeech, SpeechToSign, TextToSign}

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	switch d {
	case SignToSpeech, SpeechToSign, TextToSign:
		return true
	}
	return false
}

// Record is one logged translation attempt.
type Record struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"session_id"`
	Direction Direction `json:"translation_type"`

	// Input is the text, recognised speech or a placeholder for image input.
	Input string `json:"input_data"`

	// Output is the JSON-serialised translation result.
	Output string `json:"output_data"`

	Language string `json:"language"`

	// Confidence is set for recognizer-driven translations only.
	Confidence *float64 `json:"confidence"`

	Timestamp time.Time `json:"timestamp"`
}

// NewRecord returns a [Record] with a fresh id and the current UTC time.
func NewRecord(sessionID string, dir Direction, input, output, language string) Record {
	return Record{
		ID:        uuid.New(),
		SessionID: sessionID,
		Direction: dir,
		Input:     input,
		Output:    output,
		Language:  language,
		Timestamp: time.Now().UTC(),
	}
}

// Log is the append-only store of translation records.
type Log interface {
	// Append stores rec. Appends are not deduplicated.
	Append(ctx context.Context, rec Record) error

	// ListBySession returns up to limit records of sessionID, oldest first.
	// A non-positive limit means [DefaultLimit]. An unknown session yields an
	// empty, non-nil slice.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]Record, error)

	// CountByDirection returns how many records have direction dir.
	CountByDirection(ctx context.Context, dir Direction) (int, error)

	// Count returns the total number of records.
	Count(ctx context.Context) (int, error)
}

// EffectiveLimit resolves a caller-supplied limit against [DefaultLimit].
func EffectiveLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

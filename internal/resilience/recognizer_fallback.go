package resilience

import (
	"context"

	"github.com/MrWong99/ishara/pkg/recognizer"
)

// Compile-time interface assertions.
var (
	_ recognizer.GestureRecognizer = (*GestureFallback)(nil)
	_ recognizer.SpeechRecognizer  = (*SpeechFallback)(nil)
)

// GestureFallback implements [recognizer.GestureRecognizer] with automatic
// failover across several backends. Each backend has its own circuit breaker.
type GestureFallback struct {
	group *FallbackGroup[recognizer.GestureRecognizer]
}

// NewGestureFallback creates a [GestureFallback] with primary as the
// preferred backend.
func NewGestureFallback(primary recognizer.GestureRecognizer, primaryName string, cfg FallbackConfig) *GestureFallback {
	return &GestureFallback{group: NewFallbackGroup(primary, primaryName, cfg)}
}

// AddFallback registers an additional gesture backend.
func (f *GestureFallback) AddFallback(name string, r recognizer.GestureRecognizer) {
	f.group.AddFallback(name, r)
}

// Detect runs detection on the first healthy backend.
func (f *GestureFallback) Detect(ctx context.Context, image []byte) (recognizer.Detection, error) {
	return ExecuteWithResult(f.group, func(r recognizer.GestureRecognizer) (recognizer.Detection, error) {
		return r.Detect(ctx, image)
	})
}

// SpeechFallback implements [recognizer.SpeechRecognizer] with automatic
// failover across several backends. Each backend has its own circuit breaker.
type SpeechFallback struct {
	group *FallbackGroup[recognizer.SpeechRecognizer]
}

// NewSpeechFallback creates a [SpeechFallback] with primary as the preferred
// backend.
func NewSpeechFallback(primary recognizer.SpeechRecognizer, primaryName string, cfg FallbackConfig) *SpeechFallback {
	return &SpeechFallback{group: NewFallbackGroup(primary, primaryName, cfg)}
}

// AddFallback registers an additional speech backend.
func (f *SpeechFallback) AddFallback(name string, r recognizer.SpeechRecognizer) {
	f.group.AddFallback(name, r)
}

// Transcribe runs recognition on the first healthy backend.
func (f *SpeechFallback) Transcribe(ctx context.Context, audio []byte, lang string) (recognizer.Transcript, error) {
	return ExecuteWithResult(f.group, func(r recognizer.SpeechRecognizer) (recognizer.Transcript, error) {
		return r.Transcribe(ctx, audio, lang)
	})
}

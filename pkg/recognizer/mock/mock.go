// Package mock provides test doubles for the recognizer interfaces.
//
// Example:
//
//	g := &mock.Gesture{Result: recognizer.Detection{GestureID: "salam", Confidence: 0.9}}
//	s := &mock.Speech{Result: recognizer.Transcript{Text: "سلام", Language: "urdu"}}
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/ishara/pkg/recognizer"
)

// Compile-time interface assertions.
var (
	_ recognizer.GestureRecognizer = (*Gesture)(nil)
	_ recognizer.SpeechRecognizer  = (*Speech)(nil)
)

// Gesture is a mock [recognizer.GestureRecognizer].
type Gesture struct {
	mu sync.Mutex

	// Result is returned by Detect when Err is nil.
	Result recognizer.Detection

	// Err, if non-nil, is returned by Detect.
	Err error

	// DetectCalls records the image passed to every Detect call.
	DetectCalls [][]byte
}

// Detect records the call and returns Result, Err.
func (g *Gesture) Detect(_ context.Context, image []byte) (recognizer.Detection, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.DetectCalls = append(g.DetectCalls, image)
	if g.Err != nil {
		return recognizer.Detection{}, g.Err
	}
	return g.Result, nil
}

// CallCount returns the number of Detect calls.
func (g *Gesture) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.DetectCalls)
}

// TranscribeCall records a single invocation of Speech.Transcribe.
type TranscribeCall struct {
	Audio    []byte
	Language string
}

// Speech is a mock [recognizer.SpeechRecognizer].
type Speech struct {
	mu sync.Mutex

	// Result is returned by Transcribe when Err is nil.
	Result recognizer.Transcript

	// Err, if non-nil, is returned by Transcribe.
	Err error

	// TranscribeCalls records every Transcribe call.
	TranscribeCalls []TranscribeCall
}

// Transcribe records the call and returns Result, Err.
func (s *Speech) Transcribe(_ context.Context, audio []byte, lang string) (recognizer.Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TranscribeCalls = append(s.TranscribeCalls, TranscribeCall{Audio: audio, Language: lang})
	if s.Err != nil {
		return recognizer.Transcript{}, s.Err
	}
	return s.Result, nil
}

// CallCount returns the number of Transcribe calls.
func (s *Speech) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.TranscribeCalls)
}

// Package recognizer defines the capability interfaces behind which gesture
// detection and speech recognition are isolated.
//
// Ishara ships no real models. The random backend stands in for inference by
// picking catalogue gestures and canned phrases; the remote backend forwards
// requests to an external inference server so a real model can be plugged in
// without touching the matcher or the HTTP layer.
//
// Implementations must be safe for concurrent use.
package recognizer

import "context"

// Detection is the result of detecting a gesture in an image.
type Detection struct {
	// GestureID is the catalogue id of the detected gesture.
	GestureID string `json:"gesture"`

	// Confidence is the detector's confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// BBox is the bounding box of the detected hands as [x, y, width, height]
	// in image pixels.
	BBox [4]int `json:"bbox"`
}

// Transcript is the result of recognising speech.
type Transcript struct {
	// Text is the recognised utterance.
	Text string `json:"text"`

	// Language is the language name the text is in ("urdu", "pashto",
	// "english").
	Language string `json:"language"`

	// Confidence is the recogniser's confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// GestureRecognizer detects a sign language gesture in an encoded image.
type GestureRecognizer interface {
	// Detect returns the most likely gesture shown in image. image holds the
	// raw bytes of an encoded picture (JPEG or PNG).
	Detect(ctx context.Context, image []byte) (Detection, error)
}

// SpeechRecognizer converts recorded audio to text.
type SpeechRecognizer interface {
	// Transcribe returns the text spoken in audio. lang is a language name
	// ("urdu", "pashto", "english") used as a recognition hint.
	Transcribe(ctx context.Context, audio []byte, lang string) (Transcript, error)
}

package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/MrWong99/ishara/pkg/recognizer"
	recmock "github.com/MrWong99/ishara/pkg/recognizer/mock"
)

func TestGestureFallback_PrimarySuccess(t *testing.T) {
	primary := &recmock.Gesture{Result: recognizer.Detection{GestureID: "salam", Confidence: 0.9}}
	secondary := &recmock.Gesture{Result: recognizer.Detection{GestureID: "paani"}}

	fb := NewGestureFallback(primary, "remote", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("random", secondary)

	det, err := fb.Detect(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if det.GestureID != "salam" {
		t.Errorf("GestureID = %q, want salam", det.GestureID)
	}
	if primary.CallCount() != 1 || secondary.CallCount() != 0 {
		t.Errorf("calls primary=%d secondary=%d, want 1/0", primary.CallCount(), secondary.CallCount())
	}
}

func TestGestureFallback_Failover(t *testing.T) {
	primary := &recmock.Gesture{Err: errors.New("inference server down")}
	secondary := &recmock.Gesture{Result: recognizer.Detection{GestureID: "paani"}}

	fb := NewGestureFallback(primary, "remote", FallbackConfig{})
	fb.AddFallback("random", secondary)

	det, err := fb.Detect(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if det.GestureID != "paani" {
		t.Errorf("GestureID = %q, want paani", det.GestureID)
	}
}

func TestSpeechFallback_AllFail(t *testing.T) {
	primary := &recmock.Speech{Err: errors.New("primary down")}
	secondary := &recmock.Speech{Err: errors.New("secondary down")}

	fb := NewSpeechFallback(primary, "remote", FallbackConfig{})
	fb.AddFallback("random", secondary)

	_, err := fb.Transcribe(context.Background(), nil, "urdu")
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}

func TestSpeechFallback_PassesLanguage(t *testing.T) {
	primary := &recmock.Speech{Result: recognizer.Transcript{Text: "مننه", Language: "pashto"}}

	fb := NewSpeechFallback(primary, "remote", FallbackConfig{})
	tr, err := fb.Transcribe(context.Background(), []byte("pcm"), "pashto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Text != "مننه" {
		t.Errorf("Text = %q", tr.Text)
	}
	if got := primary.TranscribeCalls[0].Language; got != "pashto" {
		t.Errorf("language passed = %q, want pashto", got)
	}
}

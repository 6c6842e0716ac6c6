package random_test

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/MrWong99/ishara/pkg/recognizer/random"
)

func TestGesture_Detect(t *testing.T) {
	t.Parallel()

	ids := []string{"salam", "paani", "ek"}
	g, err := random.NewGesture(ids, random.WithSource(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("NewGesture: %v", err)
	}

	seen := map[string]bool{}
	for range 200 {
		det, err := g.Detect(context.Background(), []byte("image"))
		if err != nil {
			t.Fatalf("Detect: %v", err)
		}
		if !slices.Contains(ids, det.GestureID) {
			t.Fatalf("Detect returned unknown id %q", det.GestureID)
		}
		if det.Confidence < 0.75 || det.Confidence >= 0.95 {
			t.Errorf("confidence %f outside [0.75, 0.95)", det.Confidence)
		}
		if det.BBox != [4]int{100, 100, 200, 200} {
			t.Errorf("bbox = %v", det.BBox)
		}
		seen[det.GestureID] = true
	}
	if len(seen) != len(ids) {
		t.Errorf("200 detections covered %d of %d ids", len(seen), len(ids))
	}
}

func TestGesture_SeededIsDeterministic(t *testing.T) {
	t.Parallel()

	ids := []string{"a", "b", "c", "d"}
	a, _ := random.NewGesture(ids, random.WithSource(rand.NewPCG(7, 7)))
	b, _ := random.NewGesture(ids, random.WithSource(rand.NewPCG(7, 7)))
	for range 20 {
		da, _ := a.Detect(context.Background(), nil)
		db, _ := b.Detect(context.Background(), nil)
		if da != db {
			t.Fatalf("same seed produced %+v and %+v", da, db)
		}
	}
}

func TestNewGesture_EmptyIDs(t *testing.T) {
	t.Parallel()

	if _, err := random.NewGesture(nil); err == nil {
		t.Error("NewGesture(nil): expected error")
	}
}

func TestSpeech_Transcribe(t *testing.T) {
	t.Parallel()

	s := random.NewSpeech(random.WithSource(rand.NewPCG(3, 4)))

	tests := []struct {
		lang     string
		wantLang string
	}{
		{lang: "urdu", wantLang: "urdu"},
		{lang: "pashto", wantLang: "pashto"},
		{lang: "english", wantLang: "english"},
		{lang: "klingon", wantLang: "urdu"},
	}
	for _, tc := range tests {
		tr, err := s.Transcribe(context.Background(), []byte("audio"), tc.lang)
		if err != nil {
			t.Fatalf("Transcribe(%s): %v", tc.lang, err)
		}
		if tr.Language != tc.wantLang {
			t.Errorf("Transcribe(%s).Language = %q, want %q", tc.lang, tr.Language, tc.wantLang)
		}
		if !slices.Contains(random.Phrases[tc.wantLang], tr.Text) {
			t.Errorf("Transcribe(%s).Text = %q not a canned %s phrase", tc.lang, tr.Text, tc.wantLang)
		}
	}
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, _ := random.NewGesture([]string{"a"})
	if _, err := g.Detect(ctx, nil); err == nil {
		t.Error("Detect(cancelled): expected error")
	}
	if _, err := random.NewSpeech().Transcribe(ctx, nil, "urdu"); err == nil {
		t.Error("Transcribe(cancelled): expected error")
	}
}

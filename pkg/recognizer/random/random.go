// Package random provides recognizers that stand in for real inference by
// picking results at random.
//
// [Gesture] chooses uniformly among a fixed set of gesture ids with a
// confidence in [0.75, 0.95) and a constant bounding box. [Speech] chooses a
// canned phrase for the requested language. Both accept a seeded source so
// tests are deterministic.
package random

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/MrWong99/ishara/pkg/recognizer"
)

// Compile-time interface assertions.
var (
	_ recognizer.GestureRecognizer = (*Gesture)(nil)
	_ recognizer.SpeechRecognizer  = (*Speech)(nil)
)

const (
	minConfidence = 0.75
	maxConfidence = 0.95
)

// DefaultBBox is the bounding box reported for every random detection.
var DefaultBBox = [4]int{100, 100, 200, 200}

// Phrases holds the canned utterances per language name.
var Phrases = map[string][]string{
	"urdu": {
		"سلام علیکم",
		"آپ کیسے ہیں؟",
		"شکریہ",
		"خدا حافظ",
		"مجھے مدد چاہیے",
		"یہ کیا ہے؟",
		"میں سمجھ گیا",
	},
	"pashto": {
		"سلام ورور",
		"تاسو څنګه یاست؟",
		"مننه",
		"خدای پامان",
		"زه مرستې ته اړتیا لرم",
		"دا څه دي؟",
		"زه پوه شوم",
	},
	"english": {
		"hello",
		"how are you",
		"thank you",
		"goodbye",
		"I need help",
		"what is this",
		"I understand",
	},
}

// Option is a functional option for the random recognizers.
type Option func(*options)

type options struct {
	src rand.Source
}

// WithSource sets the random source. Defaults to a randomly seeded PCG.
func WithSource(src rand.Source) Option {
	return func(o *options) { o.src = src }
}

func newRand(opts []Option) *rand.Rand {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.src == nil {
		o.src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return rand.New(o.src)
}

// ─── Gesture ───

// Gesture is a [recognizer.GestureRecognizer] that ignores the image and
// picks one of its gesture ids.
type Gesture struct {
	ids []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGesture returns a [Gesture] choosing among ids, usually the catalogue's.
func NewGesture(ids []string, opts ...Option) (*Gesture, error) {
	if len(ids) == 0 {
		return nil, errors.New("random: gesture ids must not be empty")
	}
	own := make([]string, len(ids))
	copy(own, ids)
	return &Gesture{ids: own, rng: newRand(opts)}, nil
}

// Detect implements [recognizer.GestureRecognizer].
func (g *Gesture) Detect(ctx context.Context, _ []byte) (recognizer.Detection, error) {
	if err := ctx.Err(); err != nil {
		return recognizer.Detection{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return recognizer.Detection{
		GestureID:  g.ids[g.rng.IntN(len(g.ids))],
		Confidence: minConfidence + g.rng.Float64()*(maxConfidence-minConfidence),
		BBox:       DefaultBBox,
	}, nil
}

// ─── Speech ───

// Speech is a [recognizer.SpeechRecognizer] that ignores the audio and picks a
// canned phrase for the requested language. Unknown languages fall back to
// Urdu phrases.
type Speech struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSpeech returns a [Speech] recognizer.
func NewSpeech(opts ...Option) *Speech {
	return &Speech{rng: newRand(opts)}
}

// Transcribe implements [recognizer.SpeechRecognizer].
func (s *Speech) Transcribe(ctx context.Context, _ []byte, lang string) (recognizer.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return recognizer.Transcript{}, err
	}
	phrases, ok := Phrases[lang]
	if !ok {
		lang = "urdu"
		phrases = Phrases[lang]
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return recognizer.Transcript{
		Text:       phrases[s.rng.IntN(len(phrases))],
		Language:   lang,
		Confidence: minConfidence + s.rng.Float64()*(maxConfidence-minConfidence),
	}, nil
}

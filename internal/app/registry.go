package app

import (
	"math/rand/v2"

	"github.com/MrWong99/ishara/internal/config"
	"github.com/MrWong99/ishara/internal/gesture"
	"github.com/MrWong99/ishara/pkg/recognizer"
	"github.com/MrWong99/ishara/pkg/recognizer/random"
	"github.com/MrWong99/ishara/pkg/recognizer/remote"
)

// Built-in recognizer backend names.
const (
	RecognizerRandom = "random"
	RecognizerRemote = "remote"
)

// NewRegistry returns a [config.Registry] with every built-in recognizer
// backend registered.
func NewRegistry() *config.Registry {
	reg := config.NewRegistry()
	RegisterBuiltinRecognizers(reg)
	return reg
}

// RegisterBuiltinRecognizers wires the built-in recognizer factories into reg.
func RegisterBuiltinRecognizers(reg *config.Registry) {
	// ── random ───────────────────────────────────────────────────────────
	reg.RegisterGesture(RecognizerRandom, func(entry config.RecognizerEntry, cat *gesture.Catalogue) (recognizer.GestureRecognizer, error) {
		return random.NewGesture(cat.IDs(), randomOpts(entry)...)
	})
	reg.RegisterSpeech(RecognizerRandom, func(entry config.RecognizerEntry) (recognizer.SpeechRecognizer, error) {
		return random.NewSpeech(randomOpts(entry)...), nil
	})

	// ── remote ───────────────────────────────────────────────────────────
	reg.RegisterGesture(RecognizerRemote, func(entry config.RecognizerEntry, _ *gesture.Catalogue) (recognizer.GestureRecognizer, error) {
		return remote.New(entry.BaseURL, remoteOpts(entry)...)
	})
	reg.RegisterSpeech(RecognizerRemote, func(entry config.RecognizerEntry) (recognizer.SpeechRecognizer, error) {
		return remote.New(entry.BaseURL, remoteOpts(entry)...)
	})
}

func randomOpts(entry config.RecognizerEntry) []random.Option {
	if entry.Seed == 0 {
		return nil
	}
	return []random.Option{random.WithSource(rand.NewPCG(entry.Seed, entry.Seed))}
}

func remoteOpts(entry config.RecognizerEntry) []remote.Option {
	if entry.Timeout <= 0 {
		return nil
	}
	return []remote.Option{remote.WithTimeout(entry.Timeout)}
}

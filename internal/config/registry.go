package config

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/MrWong99/ishara/internal/gesture"
	"github.com/MrWong99/ishara/pkg/recognizer"
)

// ErrRecognizerNotRegistered is returned by Create* methods when no factory
// has been registered under the requested name.
var ErrRecognizerNotRegistered = errors.New("config: recognizer not registered")

// GestureFactory builds a gesture recognizer. cat is the catalogue in use, so
// backends that pick gestures can restrict themselves to known ids.
type GestureFactory func(entry RecognizerEntry, cat *gesture.Catalogue) (recognizer.GestureRecognizer, error)

// SpeechFactory builds a speech recognizer.
type SpeechFactory func(entry RecognizerEntry) (recognizer.SpeechRecognizer, error)

// Registry maps recognizer names to their constructor functions for each
// input kind. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	gesture map[string]GestureFactory
	speech  map[string]SpeechFactory
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		gesture: make(map[string]GestureFactory),
		speech:  make(map[string]SpeechFactory),
	}
}

// RegisterGesture registers a gesture recognizer factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterGesture(name string, factory GestureFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gesture[name] = factory
}

// RegisterSpeech registers a speech recognizer factory under name.
func (r *Registry) RegisterSpeech(name string, factory SpeechFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.speech[name] = factory
}

// CreateGesture instantiates a gesture recognizer using the factory
// registered under entry.Name. Returns [ErrRecognizerNotRegistered] if no
// factory has been registered for that name.
func (r *Registry) CreateGesture(entry RecognizerEntry, cat *gesture.Catalogue) (recognizer.GestureRecognizer, error) {
	r.mu.RLock()
	factory, ok := r.gesture[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: gesture/%q", ErrRecognizerNotRegistered, entry.Name)
	}
	return factory(entry, cat)
}

// CreateSpeech instantiates a speech recognizer using the factory registered
// under entry.Name.
func (r *Registry) CreateSpeech(entry RecognizerEntry) (recognizer.SpeechRecognizer, error) {
	r.mu.RLock()
	factory, ok := r.speech[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: speech/%q", ErrRecognizerNotRegistered, entry.Name)
	}
	return factory(entry)
}

// Names returns the registered names for kind ("gesture" or "speech"),
// sorted.
func (r *Registry) Names(kind string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	switch kind {
	case "gesture":
		for n := range r.gesture {
			names = append(names, n)
		}
	case "speech":
		for n := range r.speech {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}

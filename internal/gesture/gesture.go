// Package gesture holds the static catalogue of Pakistani Sign Language
// gestures known to Ishara.
//
// A [Catalogue] is built once at startup, either from the built-in table
// ([Builtin]) or from a YAML file ([LoadFile]), and is read-only afterwards.
// Every lookup preserves the insertion order of the source table, which the
// text matcher relies on for deterministic tie-breaking.
package gesture

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by [Catalogue.Lookup] when no gesture has the
// requested id.
var ErrNotFound = errors.New("gesture not found")

// Category groups gestures by topic.
type Category string

const (
	CategoryGreeting   Category = "greeting"
	CategoryFamily     Category = "family"
	CategoryNeeds      Category = "needs"
	CategoryFood       Category = "food"
	CategoryBody       Category = "body"
	CategoryColor      Category = "color"
	CategoryNumber     Category = "number"
	CategoryEmotion    Category = "emotion"
	CategoryActivity   Category = "activity"
	CategoryEducation  Category = "education"
	CategoryProfession Category = "profession"
	CategoryTransport  Category = "transport"
	CategoryTime       Category = "time"
	CategoryReligion   Category = "religion"
	CategoryVerb       Category = "verb"
)

// Categories lists every valid [Category] in display order.
var Categories = []Category{
	CategoryGreeting, CategoryFamily, CategoryNeeds, CategoryFood,
	CategoryBody, CategoryColor, CategoryNumber, CategoryEmotion,
	CategoryActivity, CategoryEducation, CategoryProfession,
	CategoryTransport, CategoryTime, CategoryReligion, CategoryVerb,
}

// IsValid reports whether c is a recognised category.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Entry is a single gesture with its glosses in the three supported
// languages.
type Entry struct {
	// ID is the stable key of the gesture (e.g. "salam", "khuda_hafiz").
	ID string `yaml:"id" json:"id"`

	// Urdu is the gesture's meaning written in Urdu script.
	Urdu string `yaml:"urdu" json:"urdu"`

	// Pashto is the gesture's meaning written in Pashto script.
	Pashto string `yaml:"pashto" json:"pashto"`

	// English is the English gloss. Alternatives are separated by "/"
	// (e.g. "Hello/Greetings").
	English string `yaml:"english" json:"meaning"`

	// Category groups the gesture by topic.
	Category Category `yaml:"category" json:"category"`
}

// Catalogue is an immutable, ordered set of gestures. All methods are safe
// for concurrent use.
type Catalogue struct {
	entries []Entry
	byID    map[string]int
}

// New validates entries and returns a [Catalogue] preserving their order.
// Validation problems are joined into a single error.
func New(entries []Entry) (*Catalogue, error) {
	var errs []error
	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		prefix := fmt.Sprintf("gestures[%d]", i)
		id := strings.TrimSpace(e.ID)
		if id == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
			continue
		}
		if id != e.ID {
			errs = append(errs, fmt.Errorf("%s.id %q has surrounding whitespace", prefix, e.ID))
		}
		if prev, ok := byID[id]; ok {
			errs = append(errs, fmt.Errorf("%s.id %q is a duplicate of gestures[%d]", prefix, id, prev))
			continue
		}
		if strings.TrimSpace(e.English) == "" {
			errs = append(errs, fmt.Errorf("%s.english is required", prefix))
		}
		if !e.Category.IsValid() {
			errs = append(errs, fmt.Errorf("%s.category %q is invalid", prefix, e.Category))
		}
		byID[id] = i
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("gesture: invalid catalogue: %w", err)
	}

	c := &Catalogue{
		entries: make([]Entry, len(entries)),
		byID:    byID,
	}
	copy(c.entries, entries)
	return c, nil
}

// Lookup returns the gesture with the given id, or [ErrNotFound].
func (c *Catalogue) Lookup(id string) (Entry, error) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return c.entries[i], nil
}

// All returns a copy of every gesture in insertion order.
func (c *Catalogue) All() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// At returns the i-th gesture in insertion order. It panics if i is out of
// range, like a slice index.
func (c *Catalogue) At(i int) Entry {
	return c.entries[i]
}

// Len returns the number of gestures.
func (c *Catalogue) Len() int { return len(c.entries) }

// IDs returns all gesture ids in insertion order.
func (c *Catalogue) IDs() []string {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.ID
	}
	return ids
}

// ByCategory returns the gestures of category cat in insertion order. An
// empty category returns every gesture.
func (c *Catalogue) ByCategory(cat Category) []Entry {
	if cat == "" {
		return c.All()
	}
	var out []Entry
	for _, e := range c.entries {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

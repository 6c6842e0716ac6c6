// Package match maps free-form phrases in English, Urdu or Pashto to entries
// of a [gesture.Catalogue].
//
// Matching is tiered and the first tier to produce a hit wins:
//
//  1. Normalize: NFC, lower-case, trim. An empty result is [ReasonEmptyInput].
//  2. Exact: the phrase equals a registered key.
//  3. Containment: the first key, in registration order, that occurs in the
//     phrase or contains it. A Latin-script key must occur as whole words of
//     the phrase; every other comparison is a plain substring test, so "hel"
//     finds "hello" and "سلامتی" finds "سلام".
//  4. Per-word: the first whitespace-separated word that equals a key.
//  5. No match: [ReasonNoMatch], which is a normal outcome and not an error.
//
// Keys are registered per entry in catalogue order: the id, the full English
// gloss, each English gloss word, the Urdu text and the Pashto text. When
// several entries register the same key, the owner is chosen by class
// (ids, then full texts in the phrase's language, then full texts in other
// languages, then gloss words) and then by catalogue order.
//
// The containment tier keeps first-registered-wins rather than longest-match
// semantics; callers must tolerate a short key pre-empting a more specific
// one that was registered later.
package match

import (
	"strings"

	"github.com/MrWong99/ishara/internal/gesture"
)

// Tier identifies which matching stage produced a hit.
type Tier int

const (
	// TierNone means no tier matched.
	TierNone Tier = iota
	// TierExact means the whole phrase equalled a key.
	TierExact
	// TierContains means a key and the phrase contained one another.
	TierContains
	// TierWord means one word of the phrase equalled a key.
	TierWord
)

// String returns the tier's wire name.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierContains:
		return "contains"
	case TierWord:
		return "word"
	default:
		return "none"
	}
}

// Reason explains the outcome of a [Matcher.Match] call.
type Reason int

const (
	ReasonMatched Reason = iota
	ReasonEmptyInput
	ReasonNoMatch
)

// String returns the reason's wire name.
func (r Reason) String() string {
	switch r {
	case ReasonMatched:
		return "matched"
	case ReasonEmptyInput:
		return "empty_input"
	case ReasonNoMatch:
		return "no_match"
	default:
		return "unknown"
	}
}

// Result is the outcome of matching one phrase.
type Result struct {
	// Entry is the matched gesture, or nil when Reason is not ReasonMatched.
	Entry *gesture.Entry

	// Keyword is the normalised key that fired.
	Keyword string

	// Tier is the stage that produced the hit.
	Tier Tier

	// Reason is ReasonMatched on a hit.
	Reason Reason
}

// Found reports whether the result carries a gesture.
func (r Result) Found() bool { return r.Entry != nil }

type keyKind int

const (
	kindID keyKind = iota
	kindEnglish
	kindUrdu
	kindPashto
	kindWord
)

// class returns the ownership priority of kind for phrases in lang. Lower
// wins.
func (k keyKind) class(lang Language) int {
	switch k {
	case kindID:
		return 0
	case kindWord:
		return 3
	}
	if k.language() == lang {
		return 1
	}
	return 2
}

func (k keyKind) language() Language {
	switch k {
	case kindEnglish:
		return English
	case kindUrdu:
		return Urdu
	case kindPashto:
		return Pashto
	default:
		return ""
	}
}

type registration struct {
	kind  keyKind
	entry int
}

// Matcher resolves phrases against a catalogue. It is read-only after
// construction and safe for concurrent use.
type Matcher struct {
	cat     *gesture.Catalogue
	entries []gesture.Entry

	// keys in first-registration order; drives the containment scan.
	// keyWords is nil for keys outside Latin script.
	keys     []string
	keyWords [][]string

	// owners maps each key to its owning entry index, per phrase language.
	owners map[Language]map[string]int

	phoneticThreshold float64
	fuzzyThreshold    float64
}

// Option is a functional option for configuring a [Matcher].
type Option func(*Matcher)

// WithSuggestThresholds sets the minimum Jaro-Winkler scores used by
// [Matcher.Suggest] for phonetic candidates and for plain fuzzy candidates.
// Defaults: 0.70 and 0.85.
func WithSuggestThresholds(phonetic, fuzzy float64) Option {
	return func(m *Matcher) {
		m.phoneticThreshold = phonetic
		m.fuzzyThreshold = fuzzy
	}
}

// New builds the reverse mapping for cat and returns a [Matcher].
func New(cat *gesture.Catalogue, opts ...Option) *Matcher {
	m := &Matcher{
		cat:               cat,
		entries:           cat.All(),
		owners:            make(map[Language]map[string]int, len(Languages)),
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(m)
	}

	regs := make(map[string][]registration)
	register := func(key string, kind keyKind, entry int) {
		if key == "" {
			return
		}
		if _, seen := regs[key]; !seen {
			m.keys = append(m.keys, key)
			var kw []string
			if isLatin(key) {
				kw = words(key)
			}
			m.keyWords = append(m.keyWords, kw)
		}
		regs[key] = append(regs[key], registration{kind: kind, entry: entry})
	}

	for i, e := range m.entries {
		register(Normalize(e.ID), kindID, i)
		gloss := Normalize(e.English)
		register(gloss, kindEnglish, i)
		for _, w := range words(gloss) {
			register(w, kindWord, i)
		}
		register(Normalize(e.Urdu), kindUrdu, i)
		register(Normalize(e.Pashto), kindPashto, i)
	}

	for _, lang := range Languages {
		owners := make(map[string]int, len(regs))
		for key, rs := range regs {
			best := rs[0]
			for _, r := range rs[1:] {
				bc, rc := best.kind.class(lang), r.kind.class(lang)
				if rc < bc || (rc == bc && r.entry < best.entry) {
					best = r
				}
			}
			owners[key] = best.entry
		}
		m.owners[lang] = owners
	}
	return m
}

// Catalogue returns the catalogue the matcher was built from.
func (m *Matcher) Catalogue() *gesture.Catalogue { return m.cat }

// Keys returns the registered keys in first-registration order.
func (m *Matcher) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Match resolves phrase, written in lang, to a gesture. An unknown lang is
// treated as [DefaultLanguage].
func (m *Matcher) Match(phrase string, lang Language) Result {
	owners, ok := m.owners[lang]
	if !ok {
		owners = m.owners[DefaultLanguage]
	}

	p := Normalize(phrase)
	if p == "" {
		return Result{Reason: ReasonEmptyInput}
	}

	if i, ok := owners[p]; ok {
		return m.hit(i, p, TierExact)
	}

	pw := words(p)
	for i, key := range m.keys {
		if m.keyInPhrase(i, p, pw) || strings.Contains(key, p) {
			return m.hit(owners[key], key, TierContains)
		}
	}

	for _, w := range strings.Fields(p) {
		if i, ok := owners[w]; ok {
			return m.hit(i, w, TierWord)
		}
	}

	return Result{Reason: ReasonNoMatch}
}

// keyInPhrase reports whether key i occurs in phrase p. Latin keys must
// cover whole words of p, so "one" is not found in "someone". Arabic-script
// keys match as plain substrings.
func (m *Matcher) keyInPhrase(i int, p string, pw []string) bool {
	if kw := m.keyWords[i]; kw != nil {
		return containsRun(pw, kw)
	}
	return strings.Contains(p, m.keys[i])
}

func (m *Matcher) hit(i int, key string, tier Tier) Result {
	e := m.entries[i]
	return Result{Entry: &e, Keyword: key, Tier: tier, Reason: ReasonMatched}
}

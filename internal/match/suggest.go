package match

import (
	"cmp"
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultPhoneticThreshold = 0.70
	defaultFuzzyThreshold    = 0.85
)

// Suggestion is a "did you mean" candidate for a phrase that did not match.
type Suggestion struct {
	ID      string  `json:"id"`
	English string  `json:"meaning"`
	Score   float64 `json:"score"`
}

// Suggest returns up to n gestures whose id or English gloss sounds like
// phrase, best first. Only Latin-script text is considered.
//
// A candidate qualifies when its Double Metaphone codes overlap the phrase's
// and its Jaro-Winkler score reaches the phonetic threshold, or when the
// score alone reaches the fuzzy threshold. Phonetic candidates rank before
// fuzzy ones. Suggestions never change the outcome of [Matcher.Match].
func (m *Matcher) Suggest(phrase string, n int) []Suggestion {
	p := Normalize(phrase)
	if n <= 0 || !isLatin(p) {
		return nil
	}
	inputTokens := strings.Fields(p)
	inputCodes := codesForTokens(inputTokens)

	type candidate struct {
		Suggestion
		phonetic bool
	}
	var cands []candidate

	for _, e := range m.entries {
		var best candidate
		for _, text := range []string{Normalize(e.ID), Normalize(e.English)} {
			if !isLatin(text) {
				continue
			}
			tokens := words(text) // also splits ids on underscores
			score := bestJWScore(inputTokens, tokens, p, text)
			phonetic := codesOverlap(inputCodes, codesForTokens(tokens))

			switch {
			case phonetic && score >= m.phoneticThreshold:
			case !phonetic && score >= m.fuzzyThreshold:
			default:
				continue
			}
			if (phonetic && !best.phonetic) || (phonetic == best.phonetic && score > best.Score) {
				best = candidate{
					Suggestion: Suggestion{ID: e.ID, English: e.English, Score: score},
					phonetic:   phonetic,
				}
			}
		}
		if best.ID != "" {
			cands = append(cands, best)
		}
	}

	slices.SortStableFunc(cands, func(a, b candidate) int {
		if a.phonetic != b.phonetic {
			if a.phonetic {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.Score, a.Score)
	})

	out := make([]Suggestion, 0, min(n, len(cands)))
	for _, c := range cands {
		if len(out) == n {
			break
		}
		out = append(out, c.Suggestion)
	}
	return out
}

// codesForTokens returns the union of all Double Metaphone codes for the
// given tokens. Empty codes are excluded.
func codesForTokens(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		p, s := matchr.DoubleMetaphone(t)
		if p != "" {
			codes[p] = struct{}{}
		}
		if s != "" {
			codes[s] = struct{}{}
		}
	}
	return codes
}

func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}

// bestJWScore is the highest Jaro-Winkler similarity over the full strings,
// the space-stripped strings and every token pair.
func bestJWScore(inputTokens, keyTokens []string, inputFull, keyFull string) float64 {
	score := matchr.JaroWinkler(inputFull, keyFull, false)

	if len(inputTokens) > 1 || len(keyTokens) > 1 {
		if s := matchr.JaroWinkler(strings.Join(inputTokens, ""), strings.Join(keyTokens, ""), false); s > score {
			score = s
		}
	}

	for _, it := range inputTokens {
		for _, kt := range keyTokens {
			if s := matchr.JaroWinkler(it, kt, false); s > score {
				score = s
			}
		}
	}
	return score
}

package match_test

import (
	"errors"
	"testing"

	"github.com/MrWong99/ishara/internal/gesture"
	"github.com/MrWong99/ishara/internal/match"
)

func newBuiltinMatcher(t *testing.T) *match.Matcher {
	t.Helper()
	return match.New(gesture.Builtin())
}

// firstWith returns the id of the first catalogue entry whose field equals
// text after normalisation.
func firstWith(cat *gesture.Catalogue, text string, field func(gesture.Entry) string) string {
	want := match.Normalize(text)
	for _, e := range cat.All() {
		if match.Normalize(field(e)) == want {
			return e.ID
		}
	}
	return ""
}

func TestMatch_ExactTextsResolveToOwner(t *testing.T) {
	t.Parallel()

	m := newBuiltinMatcher(t)
	cat := gesture.Builtin()

	fields := []struct {
		lang  match.Language
		field func(gesture.Entry) string
	}{
		{match.English, func(e gesture.Entry) string { return e.English }},
		{match.Urdu, func(e gesture.Entry) string { return e.Urdu }},
		{match.Pashto, func(e gesture.Entry) string { return e.Pashto }},
	}

	for _, e := range cat.All() {
		for _, f := range fields {
			text := f.field(e)
			want := firstWith(cat, text, f.field)
			got := m.Match(text, f.lang)
			if !got.Found() {
				t.Errorf("Match(%q, %s): no match, want %q", text, f.lang, want)
				continue
			}
			if got.Entry.ID != want {
				t.Errorf("Match(%q, %s) = %q, want %q", text, f.lang, got.Entry.ID, want)
			}
			if got.Tier != match.TierExact {
				t.Errorf("Match(%q, %s).Tier = %v, want exact", text, f.lang, got.Tier)
			}
		}
	}
}

func TestMatch_IDSelfLookup(t *testing.T) {
	t.Parallel()

	m := newBuiltinMatcher(t)
	for _, e := range gesture.Builtin().All() {
		for _, lang := range match.Languages {
			got := m.Match(e.ID, lang)
			if !got.Found() || got.Entry.ID != e.ID {
				t.Errorf("Match(%q, %s) = %+v, want %q", e.ID, lang, got, e.ID)
			}
		}
	}
}

func TestMatch_EveryKeyIsExact(t *testing.T) {
	t.Parallel()

	m := newBuiltinMatcher(t)
	for _, key := range m.Keys() {
		if got := m.Match(key, match.Urdu); got.Tier != match.TierExact {
			t.Errorf("Match(%q).Tier = %v, want exact", key, got.Tier)
		}
	}
}

func TestMatch_Reasons(t *testing.T) {
	t.Parallel()

	m := newBuiltinMatcher(t)

	tests := []struct {
		name   string
		phrase string
		lang   match.Language
		want   match.Reason
	}{
		{name: "empty", phrase: "", lang: match.Urdu, want: match.ReasonEmptyInput},
		{name: "whitespace only", phrase: "  \t\n ", lang: match.English, want: match.ReasonEmptyInput},
		{name: "nonsense urdu", phrase: "xyz123nonexistent", lang: match.Urdu, want: match.ReasonNoMatch},
		{name: "nonsense english", phrase: "xyz123nonexistent", lang: match.English, want: match.ReasonNoMatch},
		{name: "hit", phrase: "سلام", lang: match.Urdu, want: match.ReasonMatched},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := m.Match(tc.phrase, tc.lang)
			if got.Reason != tc.want {
				t.Errorf("Match(%q).Reason = %v, want %v", tc.phrase, got.Reason, tc.want)
			}
			if tc.want != match.ReasonMatched && got.Entry != nil {
				t.Errorf("Match(%q).Entry = %+v, want nil", tc.phrase, got.Entry)
			}
		})
	}
}

func TestMatch_Phrases(t *testing.T) {
	t.Parallel()

	m := newBuiltinMatcher(t)

	tests := []struct {
		phrase  string
		lang    match.Language
		wantID  string
		tier    match.Tier
		keyword string
	}{
		{phrase: "hello", lang: match.English, wantID: "salam", tier: match.TierExact, keyword: "hello"},
		{phrase: "Hello/Greetings", lang: match.English, wantID: "salam", tier: match.TierExact, keyword: "hello/greetings"},
		{phrase: "  HELLO  ", lang: match.English, wantID: "salam", tier: match.TierExact, keyword: "hello"},
		{phrase: "سلام", lang: match.Urdu, wantID: "salam", tier: match.TierExact, keyword: "سلام"},
		{phrase: "سلام علیکم", lang: match.Urdu, wantID: "salam", tier: match.TierContains, keyword: "سلام"},
		{phrase: "مجھے مدد چاہیے", lang: match.Urdu, wantID: "madad", tier: match.TierContains, keyword: "مدد"},
		{phrase: "I want paani please", lang: match.English, wantID: "paani", tier: match.TierContains, keyword: "paani"},
		{phrase: "please give me water", lang: match.English, wantID: "paani", tier: match.TierContains, keyword: "water"},
		{phrase: "how are", lang: match.English, wantID: "kya_hal", tier: match.TierContains, keyword: "how are you"},
		{phrase: "good morning", lang: match.English, wantID: "subah", tier: match.TierContains, keyword: "morning"},
		{phrase: "مننه", lang: match.Pashto, wantID: "shukriya", tier: match.TierExact, keyword: "مننه"},
		// "take" is both lena's gloss and a word of nahana's "Take bath".
		{phrase: "take", lang: match.English, wantID: "lena", tier: match.TierExact, keyword: "take"},
		{phrase: "take bath", lang: match.English, wantID: "nahana", tier: match.TierExact, keyword: "take bath"},
		// id "do" outranks the gloss word of karna's "Do/Make".
		{phrase: "do", lang: match.English, wantID: "do", tier: match.TierExact, keyword: "do"},
		{phrase: "do/make", lang: match.English, wantID: "karna", tier: match.TierExact, keyword: "do/make"},
	}

	for _, tc := range tests {
		t.Run(tc.phrase, func(t *testing.T) {
			t.Parallel()
			got := m.Match(tc.phrase, tc.lang)
			if !got.Found() {
				t.Fatalf("Match(%q, %s): no match (reason %v)", tc.phrase, tc.lang, got.Reason)
			}
			if got.Entry.ID != tc.wantID {
				t.Errorf("Match(%q).Entry.ID = %q, want %q", tc.phrase, got.Entry.ID, tc.wantID)
			}
			if got.Tier != tc.tier {
				t.Errorf("Match(%q).Tier = %v, want %v", tc.phrase, got.Tier, tc.tier)
			}
			if got.Keyword != tc.keyword {
				t.Errorf("Match(%q).Keyword = %q, want %q", tc.phrase, got.Keyword, tc.keyword)
			}
		})
	}
}

func TestMatch_SharedPashtoTextGoesToFirstEntry(t *testing.T) {
	t.Parallel()

	m := newBuiltinMatcher(t)
	tests := map[string]string{
		"پښه":    "pair",
		"شین":    "hara",
		"تلل":    "chalna",
		"اخیستل": "lena",
	}
	for text, want := range tests {
		if got := m.Match(text, match.Pashto); !got.Found() || got.Entry.ID != want {
			t.Errorf("Match(%q, pashto) = %+v, want %q", text, got, want)
		}
	}
}

func TestMatch_ContainmentFirstRegisteredWins(t *testing.T) {
	t.Parallel()

	// Both "mother" and "father" occur; ammi is registered before abbu.
	m := newBuiltinMatcher(t)
	got := m.Match("my mother and father", match.English)
	if !got.Found() || got.Entry.ID != "ammi" {
		t.Fatalf("Match = %+v, want ammi", got)
	}
	if got.Tier != match.TierContains {
		t.Errorf("Tier = %v, want contains", got.Tier)
	}
}

func TestMatch_ContainmentDirections(t *testing.T) {
	t.Parallel()

	m := newBuiltinMatcher(t)

	tests := []struct {
		name    string
		phrase  string
		lang    match.Language
		wantID  string
		keyword string
	}{
		{name: "prefix of gloss", phrase: "hel", lang: match.English, wantID: "salam", keyword: "hello/greetings"},
		{name: "inner part of gloss", phrase: "greet", lang: match.English, wantID: "salam", keyword: "hello/greetings"},
		{name: "prefix of later gloss", phrase: "mor", lang: match.English, wantID: "subah", keyword: "morning"},
		{name: "urdu key inside longer word", phrase: "سلامتی", lang: match.Urdu, wantID: "salam", keyword: "سلام"},
		{name: "urdu key inside sentence", phrase: "مدد گار", lang: match.Urdu, wantID: "madad", keyword: "مدد"},
		{name: "pashto key inside sentence", phrase: "اوبه راکړه", lang: match.Pashto, wantID: "paani", keyword: "اوبه"},
		{name: "latin key as whole word", phrase: "water please", lang: match.English, wantID: "paani", keyword: "water"},
		// Latin keys never match inside a longer word.
		{name: "one inside someone", phrase: "someone", lang: match.English},
		{name: "ten inside often", phrase: "often", lang: match.English},
		{name: "nonsense", phrase: "xyz123nonexistent", lang: match.English},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := m.Match(tc.phrase, tc.lang)
			if tc.wantID == "" {
				if got.Found() {
					t.Errorf("Match(%q) = %s via %q, want no match", tc.phrase, got.Entry.ID, got.Keyword)
				}
				return
			}
			if !got.Found() {
				t.Fatalf("Match(%q): no match (reason %v)", tc.phrase, got.Reason)
			}
			if got.Entry.ID != tc.wantID || got.Keyword != tc.keyword || got.Tier != match.TierContains {
				t.Errorf("Match(%q) = %s via %q (%v), want %s via %q (contains)",
					tc.phrase, got.Entry.ID, got.Keyword, got.Tier, tc.wantID, tc.keyword)
			}
		})
	}
}

func TestMatch_ExactBeatsEarlierShorterKey(t *testing.T) {
	t.Parallel()

	cat, err := gesture.New([]gesture.Entry{
		{ID: "chai", Urdu: "چائے", Pashto: "چای", English: "Tea", Category: gesture.CategoryFood},
		{ID: "chai_cup", Urdu: "چائے کا کپ", Pashto: "د چای پیاله", English: "Tea cup", Category: gesture.CategoryFood},
	})
	if err != nil {
		t.Fatal(err)
	}
	m := match.New(cat)

	tests := []struct {
		phrase string
		lang   match.Language
	}{
		{"tea cup", match.English},
		{"چائے کا کپ", match.Urdu},
		{"د چای پیاله", match.Pashto},
	}
	for _, tc := range tests {
		got := m.Match(tc.phrase, tc.lang)
		if !got.Found() || got.Entry.ID != "chai_cup" || got.Tier != match.TierExact {
			t.Errorf("Match(%q) = %+v, want chai_cup via exact tier", tc.phrase, got)
		}
	}

	// A longer phrase still falls to the first registered key.
	if got := m.Match("a tea cup please", match.English); !got.Found() || got.Entry.ID != "chai" {
		t.Errorf("Match(longer phrase) = %+v, want chai", got)
	}
}

func TestMatch_LanguagePicksFullTextOwner(t *testing.T) {
	t.Parallel()

	// "کتاب" is the Urdu text of one entry and the Pashto text of another.
	cat, err := gesture.New([]gesture.Entry{
		{ID: "a", Urdu: "الف", Pashto: "کتاب", English: "Alpha", Category: gesture.CategoryEducation},
		{ID: "b", Urdu: "کتاب", Pashto: "ب", English: "Beta", Category: gesture.CategoryEducation},
	})
	if err != nil {
		t.Fatal(err)
	}
	m := match.New(cat)

	if got := m.Match("کتاب", match.Pashto); got.Entry == nil || got.Entry.ID != "a" {
		t.Errorf("Match(pashto) = %+v, want a", got)
	}
	if got := m.Match("کتاب", match.Urdu); got.Entry == nil || got.Entry.ID != "b" {
		t.Errorf("Match(urdu) = %+v, want b", got)
	}
	// English prefers neither language; catalogue order decides.
	if got := m.Match("کتاب", match.English); got.Entry == nil || got.Entry.ID != "a" {
		t.Errorf("Match(english) = %+v, want a", got)
	}
}

func TestMatch_Deterministic(t *testing.T) {
	t.Parallel()

	a := newBuiltinMatcher(t)
	b := newBuiltinMatcher(t)
	phrases := []string{"my mother and father", "سلام علیکم", "good morning", "xyz"}
	for _, p := range phrases {
		ra, rb := a.Match(p, match.English), b.Match(p, match.English)
		if ra.Found() != rb.Found() || ra.Keyword != rb.Keyword || ra.Tier != rb.Tier {
			t.Errorf("Match(%q) differs between matchers: %+v vs %+v", p, ra, rb)
		}
	}
}

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    match.Language
		wantErr bool
	}{
		{in: "", want: match.Urdu},
		{in: "urdu", want: match.Urdu},
		{in: "UR", want: match.Urdu},
		{in: "Pashto", want: match.Pashto},
		{in: "ps", want: match.Pashto},
		{in: "english", want: match.English},
		{in: "en", want: match.English},
		{in: "klingon", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := match.ParseLanguage(tc.in)
			if tc.wantErr {
				if !errors.Is(err, match.ErrUnknownLanguage) {
					t.Errorf("ParseLanguage(%q) error = %v, want ErrUnknownLanguage", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLanguage(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseLanguage(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	m := newBuiltinMatcher(t)

	got := m.Suggest("watr", 3)
	if len(got) == 0 {
		t.Fatal("Suggest(watr): no suggestions")
	}
	found := false
	for _, s := range got {
		if s.ID == "paani" {
			found = true
		}
	}
	if !found {
		t.Errorf("Suggest(watr) = %+v, want paani among them", got)
	}
	if len(got) > 3 {
		t.Errorf("Suggest returned %d suggestions, want at most 3", len(got))
	}

	if got := m.Suggest("سلام", 3); got != nil {
		t.Errorf("Suggest(non-latin) = %+v, want nil", got)
	}
	if got := m.Suggest("water", 0); got != nil {
		t.Errorf("Suggest(n=0) = %+v, want nil", got)
	}
}

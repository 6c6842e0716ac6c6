package match

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLanguage is returned by [ParseLanguage] for unsupported names.
var ErrUnknownLanguage = errors.New("match: unknown language")

// Language identifies the language a phrase was written or spoken in.
type Language string

const (
	English Language = "english"
	Urdu    Language = "urdu"
	Pashto  Language = "pashto"
)

// DefaultLanguage is assumed when a request does not name one.
const DefaultLanguage = Urdu

// Languages lists all supported languages.
var Languages = []Language{English, Urdu, Pashto}

// Code returns the ISO 639-1 code of l ("en", "ur", "ps").
func (l Language) Code() string {
	switch l {
	case English:
		return "en"
	case Urdu:
		return "ur"
	case Pashto:
		return "ps"
	default:
		return ""
	}
}

// ParseLanguage resolves a language name or ISO 639-1 code
// (case-insensitive). An empty string yields [DefaultLanguage].
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultLanguage, nil
	case "english", "en":
		return English, nil
	case "urdu", "ur":
		return Urdu, nil
	case "pashto", "ps":
		return Pashto, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
}

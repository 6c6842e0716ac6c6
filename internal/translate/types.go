package translate

import (
	"github.com/MrWong99/ishara/internal/gesture"
	"github.com/MrWong99/ishara/internal/match"
)

// Messages reported on a miss.
const (
	NoMatchText   = "No matching gesture found for this text"
	NoMatchSpeech = "No matching gesture found for this speech"
)

// TextRequest asks for the gesture matching a phrase.
type TextRequest struct {
	Text string

	// Language is a language name or code; empty means Urdu.
	Language string

	// SessionID groups records for history. A random id is assigned when
	// empty.
	SessionID string
}

// SpeechRequest asks for the gesture matching recorded speech.
type SpeechRequest struct {
	Audio     []byte
	Language  string
	SessionID string
}

// DetectRequest asks which gesture an image shows.
type DetectRequest struct {
	Image     []byte
	SessionID string
}

// GestureData is the multilingual description of a gesture.
type GestureData struct {
	Urdu     string           `json:"urdu"`
	Pashto   string           `json:"pashto"`
	Meaning  string           `json:"meaning"`
	Category gesture.Category `json:"category"`
}

// DataFor returns the description of e.
func DataFor(e gesture.Entry) GestureData {
	return GestureData{
		Urdu:     e.Urdu,
		Pashto:   e.Pashto,
		Meaning:  e.English,
		Category: e.Category,
	}
}

// SignResult is the outcome of a text or speech translation. Gesture is nil
// on a miss so it encodes as JSON null.
type SignResult struct {
	InputText      string  `json:"input_text,omitempty"`
	RecognizedText string  `json:"recognized_text,omitempty"`
	Language       string  `json:"language"`
	GestureFound   bool    `json:"gesture_found"`
	Gesture        *string `json:"gesture"`

	GestureData    *GestureData `json:"gesture_data,omitempty"`
	MatchedKeyword string       `json:"matched_keyword,omitempty"`
	MatchTier      string       `json:"match_tier"`
	Message        string       `json:"message,omitempty"`

	// Suggestions lists near misses when nothing matched.
	Suggestions []match.Suggestion `json:"suggestions,omitempty"`

	// Confidence is the speech recognizer's confidence.
	Confidence *float64 `json:"confidence,omitempty"`
}

// SignResponse pairs a result with the session it was logged under.
type SignResponse struct {
	SessionID string
	Result    SignResult
}

// DetectionResult describes a detected gesture.
type DetectionResult struct {
	Gesture     string      `json:"gesture"`
	Confidence  float64     `json:"confidence"`
	BBox        [4]int      `json:"bbox"`
	UrduText    string      `json:"urdu_text"`
	PashtoText  string      `json:"pashto_text"`
	Meaning     string      `json:"meaning"`
	GestureData GestureData `json:"gesture_data"`
}

// DetectResponse pairs a detection with the session it was logged under.
type DetectResponse struct {
	SessionID string
	Detection DetectionResult
}

// Stats summarises the translation log.
type Stats struct {
	TotalTranslations int    `json:"total_translations"`
	SignToSpeech      int    `json:"sign_to_speech_count"`
	SpeechToSign      int    `json:"speech_to_sign_count"`
	TextToSign        int    `json:"text_to_sign_count"`
	AvailableGestures int    `json:"available_gestures"`
	ModelStatus       string `json:"model_status"`
}

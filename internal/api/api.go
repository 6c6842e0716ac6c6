// Package api serves Ishara's REST interface.
//
// Every route lives under the /api prefix and answers with a JSON envelope
// whose "success" field reports the outcome. Failures carry an "error"
// message and a status derived from the error kind:
//
//	400  malformed body, missing field, unsupported language
//	404  unknown gesture id
//	413  body larger than the configured limit
//	500  translation log unavailable
//	502  gesture or speech recognizer failed
package api

import (
	"net/http"
	"strconv"

	"github.com/MrWong99/ishara/internal/gesture"
	"github.com/MrWong99/ishara/internal/translate"
	"github.com/MrWong99/ishara/internal/translog"
)

const (
	// Prefix is the path prefix of every REST route.
	Prefix = "/api"

	rootMessage = "Sign Language Translation API - Ready!"
	apiVersion  = "1.0"

	defaultMaxBodyBytes = 10 << 20
)

// Option is a functional option for configuring a [Server].
type Option func(*Server)

// WithAnimationStream mounts h at GET /api/ws/animations.
func WithAnimationStream(h http.Handler) Option {
	return func(s *Server) { s.stream = h }
}

// WithMaxBodyBytes caps request bodies at n bytes. Default: 10 MiB.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithCORSOrigins sets the origins allowed to call the API from a browser.
// "*" allows any origin. Default: "*".
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// Server routes REST requests to a [translate.Service].
type Server struct {
	svc     *translate.Service
	stream  http.Handler
	maxBody int64
	origins []string
}

// New returns a [Server] backed by svc.
func New(svc *translate.Service, opts ...Option) *Server {
	s := &Server{
		svc:     svc,
		maxBody: defaultMaxBodyBytes,
		origins: []string{"*"},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register adds the REST routes to mux under [Prefix].
func (s *Server) Register(mux *http.ServeMux) {
	mux.Handle(Prefix+"/", s.Handler())
}

// Handler returns the REST routes wrapped in the CORS and body limit
// middleware. Paths include [Prefix].
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+Prefix+"/{$}", s.handleRoot)
	mux.HandleFunc("GET "+Prefix+"/gestures", s.handleGestures)
	mux.HandleFunc("GET "+Prefix+"/gestures/{id}", s.handleGesture)
	mux.HandleFunc("POST "+Prefix+"/text-to-sign", s.handleTextToSign)
	mux.HandleFunc("POST "+Prefix+"/speech-to-sign", s.handleSpeechToSign)
	mux.HandleFunc("POST "+Prefix+"/detect-gesture", s.handleDetectGesture)
	mux.HandleFunc("GET "+Prefix+"/history/{session_id}", s.handleHistory)
	mux.HandleFunc("GET "+Prefix+"/stats", s.handleStats)
	if s.stream != nil {
		mux.Handle("GET "+Prefix+"/ws/animations", s.stream)
	}
	return cors(s.origins, limitBody(s.maxBody, mux))
}

// ── Handlers ──

type rootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// handleRoot handles GET /api/.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{Message: rootMessage, Version: apiVersion})
}

type gesturesResponse struct {
	Success  bool            `json:"success"`
	Gestures []gesture.Entry `json:"gestures"`
	Count    int             `json:"count"`
}

// handleGestures handles GET /api/gestures?category=C.
func (s *Server) handleGestures(w http.ResponseWriter, r *http.Request) {
	cat := gesture.Category(r.URL.Query().Get("category"))
	if cat != "" && !cat.IsValid() {
		writeError(w, r, &translate.ValidationError{Field: "category", Reason: "unknown category " + strconv.Quote(string(cat))})
		return
	}
	entries := s.svc.Catalogue().ByCategory(cat)
	if entries == nil {
		entries = []gesture.Entry{}
	}
	writeJSON(w, http.StatusOK, gesturesResponse{Success: true, Gestures: entries, Count: len(entries)})
}

type gestureResponse struct {
	Success bool          `json:"success"`
	Gesture gesture.Entry `json:"gesture"`
}

// handleGesture handles GET /api/gestures/{id}.
func (s *Server) handleGesture(w http.ResponseWriter, r *http.Request) {
	e, err := s.svc.Catalogue().Lookup(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gestureResponse{Success: true, Gesture: e})
}

type textRequest struct {
	Text      string `json:"text"`
	Language  string `json:"language"`
	SessionID string `json:"session_id"`
}

type signResponse struct {
	Success   bool                 `json:"success"`
	Result    translate.SignResult `json:"result"`
	SessionID string               `json:"session_id"`
}

// handleTextToSign handles POST /api/text-to-sign.
func (s *Server) handleTextToSign(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.svc.TextToSign(r.Context(), translate.TextRequest{
		Text:      req.Text,
		Language:  req.Language,
		SessionID: req.SessionID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signResponse{Success: true, Result: resp.Result, SessionID: resp.SessionID})
}

type speechRequest struct {
	AudioData string `json:"audio_data"`
	Language  string `json:"language"`
	SessionID string `json:"session_id"`
}

// handleSpeechToSign handles POST /api/speech-to-sign. audio_data is base64.
func (s *Server) handleSpeechToSign(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	audio, err := decodeBase64("audio_data", req.AudioData)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.svc.SpeechToSign(r.Context(), translate.SpeechRequest{
		Audio:     audio,
		Language:  req.Language,
		SessionID: req.SessionID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signResponse{Success: true, Result: resp.Result, SessionID: resp.SessionID})
}

type detectRequest struct {
	ImageData string `json:"image_data"`
	SessionID string `json:"session_id"`
}

type detectResponse struct {
	Success   bool                      `json:"success"`
	Detection translate.DetectionResult `json:"detection"`
	SessionID string                    `json:"session_id"`
}

// handleDetectGesture handles POST /api/detect-gesture. image_data is base64
// and may carry a data URL prefix.
func (s *Server) handleDetectGesture(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	image, err := decodeBase64("image_data", req.ImageData)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.svc.DetectGesture(r.Context(), translate.DetectRequest{
		Image:     image,
		SessionID: req.SessionID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detectResponse{Success: true, Detection: resp.Detection, SessionID: resp.SessionID})
}

type historyResponse struct {
	Success bool              `json:"success"`
	History []translog.Record `json:"history"`
	Count   int               `json:"count"`
}

// handleHistory handles GET /api/history/{session_id}?limit=N.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, &translate.ValidationError{Field: "limit", Reason: "must be a non-negative integer"})
			return
		}
		limit = n
	}
	recs, err := s.svc.History(r.Context(), r.PathValue("session_id"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []translog.Record{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Success: true, History: recs, Count: len(recs)})
}

// statsResponse carries the counts at the top level next to success.
type statsResponse struct {
	Success bool `json:"success"`
	translate.Stats
}

// handleStats handles GET /api/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: st})
}

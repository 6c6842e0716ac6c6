// Package translate orchestrates Ishara's translation requests.
//
// A [Service] validates a request, resolves it to a gesture through the
// matcher or a recognizer, appends a record to the translation log, and
// announces hits to the animation hub. Every attempt that reaches the
// matcher is logged, whether it matched or not. Validation failures are not.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/ishara/internal/animate"
	"github.com/MrWong99/ishara/internal/gesture"
	"github.com/MrWong99/ishara/internal/match"
	"github.com/MrWong99/ishara/internal/observe"
	"github.com/MrWong99/ishara/internal/translog"
	"github.com/MrWong99/ishara/pkg/recognizer"
)

const (
	defaultSuggestions = 3

	// detectLanguage is the language recorded for image detections, which
	// yield both Urdu and Pashto text.
	detectLanguage = "both"

	// detectInput stands in for the image in the log; images are not stored.
	detectInput = "image_data"
)

// Publisher receives animation events. [animate.Hub] implements it.
type Publisher interface {
	Publish(ev animate.Event) int
}

// Option is a functional option for configuring a [Service].
type Option func(*Service)

// WithGestureRecognizer sets the backend used by [Service.DetectGesture].
func WithGestureRecognizer(r recognizer.GestureRecognizer) Option {
	return func(s *Service) { s.gestures = r }
}

// WithSpeechRecognizer sets the backend used by [Service.SpeechToSign].
func WithSpeechRecognizer(r recognizer.SpeechRecognizer) Option {
	return func(s *Service) { s.speech = r }
}

// WithPublisher announces matched gestures to p, planned by a.
func WithPublisher(p Publisher, a *animate.Animator) Option {
	return func(s *Service) {
		s.publisher = p
		s.animator = a
	}
}

// WithAnimation sets the clip length and frame rate of published
// animations. Zero values keep the animator's defaults.
func WithAnimation(duration time.Duration, fps int) Option {
	return func(s *Service) {
		s.animDuration = duration
		s.animFPS = fps
	}
}

// WithMetrics sets the metric instruments. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithHistoryLimit sets the default number of records returned by
// [Service.History]. Default: [translog.DefaultLimit].
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithSuggestions sets how many "did you mean" candidates are attached to a
// miss. Zero disables suggestions. Default: 3.
func WithSuggestions(n int) Option {
	return func(s *Service) { s.suggestions = max(n, 0) }
}

// Service handles translation requests. It is safe for concurrent use.
type Service struct {
	matcher *match.Matcher
	log     translog.Log

	gestures recognizer.GestureRecognizer
	speech   recognizer.SpeechRecognizer

	publisher    Publisher
	animator     *animate.Animator
	animDuration time.Duration
	animFPS      int

	metrics      *observe.Metrics
	historyLimit int
	suggestions  int
}

// New returns a [Service] matching with m and logging to log.
func New(m *match.Matcher, log translog.Log, opts ...Option) *Service {
	s := &Service{
		matcher:      m,
		log:          log,
		historyLimit: translog.DefaultLimit,
		suggestions:  defaultSuggestions,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	if s.publisher != nil && s.animator == nil {
		s.animator = animate.NewAnimator()
	}
	return s
}

// Catalogue returns the catalogue the service matches against.
func (s *Service) Catalogue() *gesture.Catalogue { return s.matcher.Catalogue() }

// Match resolves phrase without logging or publishing. It backs read-only
// surfaces such as the MCP tools.
func (s *Service) Match(ctx context.Context, phrase string, lang match.Language) match.Result {
	start := time.Now()
	res := s.matcher.Match(phrase, lang)
	s.metrics.RecordMatch(ctx, res.Tier.String(), string(lang), time.Since(start).Seconds())
	return res
}

// Suggest returns the configured number of "did you mean" candidates for
// phrase.
func (s *Service) Suggest(phrase string) []match.Suggestion {
	if s.suggestions == 0 {
		return nil
	}
	return s.matcher.Suggest(phrase, s.suggestions)
}

// TextToSign resolves req.Text to a gesture and logs the attempt.
func (s *Service) TextToSign(ctx context.Context, req TextRequest) (SignResponse, error) {
	ctx, span := observe.StartSpan(ctx, "translate.TextToSign")
	defer span.End()

	sessionID := sessionOrNew(req.SessionID)
	ctx = observe.WithSession(ctx, sessionID)

	lang, err := parseLanguage(req.Language)
	if err != nil {
		return SignResponse{}, s.fail(ctx, span, translog.TextToSign, err)
	}
	if match.Normalize(req.Text) == "" {
		err := &ValidationError{Field: "text", Reason: "must not be empty", Err: ErrEmptyInput}
		return SignResponse{}, s.fail(ctx, span, translog.TextToSign, err)
	}

	res := s.resolve(ctx, req.Text, lang, NoMatchText)
	res.InputText = req.Text

	if err := s.record(ctx, sessionID, translog.TextToSign, req.Text, string(lang), nil, res); err != nil {
		return SignResponse{}, s.fail(ctx, span, translog.TextToSign, err)
	}
	s.announce(ctx, res, string(lang), sessionID, translog.TextToSign)
	s.succeed(ctx, span, translog.TextToSign, res.GestureFound)

	return SignResponse{SessionID: sessionID, Result: res}, nil
}

// SpeechToSign transcribes req.Audio and resolves the transcript like
// [Service.TextToSign], logging it as speech_to_sign.
func (s *Service) SpeechToSign(ctx context.Context, req SpeechRequest) (SignResponse, error) {
	ctx, span := observe.StartSpan(ctx, "translate.SpeechToSign")
	defer span.End()

	sessionID := sessionOrNew(req.SessionID)
	ctx = observe.WithSession(ctx, sessionID)

	lang, err := parseLanguage(req.Language)
	if err != nil {
		return SignResponse{}, s.fail(ctx, span, translog.SpeechToSign, err)
	}
	if len(req.Audio) == 0 {
		return SignResponse{}, s.fail(ctx, span, translog.SpeechToSign, invalid("audio_data", "must not be empty"))
	}
	if s.speech == nil {
		return SignResponse{}, s.fail(ctx, span, translog.SpeechToSign,
			recognizerErr("speech", errors.New("no recognizer configured")))
	}

	start := time.Now()
	tr, err := s.speech.Transcribe(ctx, req.Audio, string(lang))
	if err == nil && match.Normalize(tr.Text) == "" {
		err = errors.New("empty transcript")
	}
	s.metrics.RecordRecognizer(ctx, "speech", status(err), time.Since(start).Seconds())
	if err != nil {
		return SignResponse{}, s.fail(ctx, span, translog.SpeechToSign, recognizerErr("speech", err))
	}

	res := s.resolve(ctx, tr.Text, lang, NoMatchSpeech)
	res.RecognizedText = tr.Text
	conf := tr.Confidence
	res.Confidence = &conf

	if err := s.record(ctx, sessionID, translog.SpeechToSign, tr.Text, string(lang), &conf, res); err != nil {
		return SignResponse{}, s.fail(ctx, span, translog.SpeechToSign, err)
	}
	s.announce(ctx, res, string(lang), sessionID, translog.SpeechToSign)
	s.succeed(ctx, span, translog.SpeechToSign, res.GestureFound)

	return SignResponse{SessionID: sessionID, Result: res}, nil
}

// DetectGesture asks the gesture recognizer which gesture req.Image shows
// and logs the detection as sign_to_speech.
func (s *Service) DetectGesture(ctx context.Context, req DetectRequest) (DetectResponse, error) {
	ctx, span := observe.StartSpan(ctx, "translate.DetectGesture")
	defer span.End()

	sessionID := sessionOrNew(req.SessionID)
	ctx = observe.WithSession(ctx, sessionID)

	if len(req.Image) == 0 {
		return DetectResponse{}, s.fail(ctx, span, translog.SignToSpeech, invalid("image_data", "must not be empty"))
	}
	if s.gestures == nil {
		return DetectResponse{}, s.fail(ctx, span, translog.SignToSpeech,
			recognizerErr("gesture", errors.New("no recognizer configured")))
	}

	start := time.Now()
	det, err := s.gestures.Detect(ctx, req.Image)
	var entry gesture.Entry
	if err == nil {
		entry, err = s.Catalogue().Lookup(det.GestureID)
		if err != nil {
			err = fmt.Errorf("detected %q: %w", det.GestureID, err)
		}
	}
	s.metrics.RecordRecognizer(ctx, "gesture", status(err), time.Since(start).Seconds())
	if err != nil {
		return DetectResponse{}, s.fail(ctx, span, translog.SignToSpeech, recognizerErr("gesture", err))
	}

	out := DetectionResult{
		Gesture:     entry.ID,
		Confidence:  det.Confidence,
		BBox:        det.BBox,
		UrduText:    entry.Urdu,
		PashtoText:  entry.Pashto,
		Meaning:     entry.English,
		GestureData: DataFor(entry),
	}
	conf := det.Confidence
	if err := s.record(ctx, sessionID, translog.SignToSpeech, detectInput, detectLanguage, &conf, out); err != nil {
		return DetectResponse{}, s.fail(ctx, span, translog.SignToSpeech, err)
	}
	s.succeed(ctx, span, translog.SignToSpeech, true)

	return DetectResponse{SessionID: sessionID, Detection: out}, nil
}

// History returns up to limit records of sessionID, oldest first. A
// non-positive limit selects the configured default.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]translog.Record, error) {
	if sessionID == "" {
		return nil, invalid("session_id", "must not be empty")
	}
	if limit <= 0 {
		limit = s.historyLimit
	}
	return s.log.ListBySession(ctx, sessionID, limit)
}

// Stats counts logged translations. The counts are fetched concurrently.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	st := Stats{
		AvailableGestures: s.Catalogue().Len(),
		ModelStatus:       "not_loaded",
	}
	if s.gestures != nil {
		st.ModelStatus = "loaded"
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.TotalTranslations, err = s.log.Count(ctx)
		return err
	})
	counts := map[translog.Direction]*int{
		translog.SignToSpeech: &st.SignToSpeech,
		translog.SpeechToSign: &st.SpeechToSign,
		translog.TextToSign:   &st.TextToSign,
	}
	for dir, dst := range counts {
		g.Go(func() (err error) {
			*dst, err = s.log.CountByDirection(ctx, dir)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return st, nil
}

// resolve matches text and shapes the result. missMsg is reported on a miss.
func (s *Service) resolve(ctx context.Context, text string, lang match.Language, missMsg string) SignResult {
	m := s.Match(ctx, text, lang)
	res := SignResult{
		Language:  string(lang),
		MatchTier: m.Tier.String(),
	}
	if !m.Found() {
		res.Message = missMsg
		res.Suggestions = s.Suggest(text)
		return res
	}
	id := m.Entry.ID
	data := DataFor(*m.Entry)
	res.GestureFound = true
	res.Gesture = &id
	res.GestureData = &data
	res.MatchedKeyword = m.Keyword
	return res
}

// record appends a log record whose output is the JSON form of out.
func (s *Service) record(ctx context.Context, sessionID string, dir translog.Direction, input, lang string, conf *float64, out any) error {
	payload, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("translate: encode result: %w", err)
	}
	rec := translog.NewRecord(sessionID, dir, input, string(payload), lang)
	rec.Confidence = conf
	if err := s.log.Append(ctx, rec); err != nil {
		s.metrics.LogErrors.Add(ctx, 1)
		return err
	}
	return nil
}

// announce publishes an animation event for a hit. It never blocks.
func (s *Service) announce(ctx context.Context, res SignResult, lang, sessionID string, dir translog.Direction) {
	if s.publisher == nil || res.Gesture == nil {
		return
	}
	anim := s.animator.Plan(*res.Gesture, s.animDuration, s.animFPS)
	n := s.publisher.Publish(animate.Event{
		GestureID: *res.Gesture,
		Language:  lang,
		Source:    string(dir),
		SessionID: sessionID,
		Animation: anim,
		Timestamp: time.Now().UTC(),
	})
	s.metrics.AnimationsPublished.Add(ctx, 1)
	observe.Logger(ctx).Debug("animation published", "gesture_id", *res.Gesture, "subscribers", n)
}

func (s *Service) succeed(ctx context.Context, span trace.Span, dir translog.Direction, found bool) {
	st := "matched"
	if !found {
		st = "no_match"
	}
	span.SetAttributes(attribute.String("direction", string(dir)), attribute.String("status", st))
	s.metrics.RecordTranslation(ctx, string(dir), st)
}

func (s *Service) fail(ctx context.Context, span trace.Span, dir translog.Direction, err error) error {
	st := "error"
	var verr *ValidationError
	if errors.As(err, &verr) {
		st = "invalid"
	} else {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observe.Logger(ctx).Warn("translation failed", "direction", dir, "error", err)
	}
	s.metrics.RecordTranslation(ctx, string(dir), st)
	return err
}

func parseLanguage(s string) (match.Language, error) {
	lang, err := match.ParseLanguage(s)
	if err != nil {
		return "", &ValidationError{Field: "language", Reason: fmt.Sprintf("unsupported language %q", s), Err: err}
	}
	return lang, nil
}

func sessionOrNew(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

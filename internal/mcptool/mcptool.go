// Package mcptool exposes the gesture matcher as Model Context Protocol tools.
//
// Three tools are served:
//   - "match_gesture": resolve a phrase to a gesture, as POST /api/text-to-sign
//     does, without writing to the translation log.
//   - "list_gestures": list catalogue entries, optionally by category.
//   - "get_gesture":   fetch one catalogue entry by id.
//
// All handlers are read-only and safe for concurrent use.
package mcptool

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/ishara/internal/gesture"
	"github.com/MrWong99/ishara/internal/match"
	"github.com/MrWong99/ishara/internal/observe"
	"github.com/MrWong99/ishara/internal/translate"
)

const (
	serverName     = "ishara"
	defaultVersion = "1.0.0"
)

// Option is a functional option for [NewServer].
type Option func(*options)

type options struct {
	version string
	metrics *observe.Metrics
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// WithMetrics sets the metric instruments. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// MatchInput is the argument of "match_gesture".
type MatchInput struct {
	Text     string `json:"text" jsonschema:"phrase to translate into a sign"`
	Language string `json:"language,omitempty" jsonschema:"language of the phrase: urdu, pashto or english (default urdu)"`
}

// MatchOutput is the result of "match_gesture".
type MatchOutput struct {
	GestureFound   bool                   `json:"gesture_found"`
	Gesture        string                 `json:"gesture,omitempty"`
	GestureData    *translate.GestureData `json:"gesture_data,omitempty"`
	MatchedKeyword string                 `json:"matched_keyword,omitempty"`
	MatchTier      string                 `json:"match_tier"`
	Language       string                 `json:"language"`
	Suggestions    []match.Suggestion     `json:"suggestions,omitempty"`
}

// ListInput is the argument of "list_gestures".
type ListInput struct {
	Category string `json:"category,omitempty" jsonschema:"only list gestures of this category"`
}

// ListOutput is the result of "list_gestures".
type ListOutput struct {
	Gestures []gesture.Entry `json:"gestures"`
	Count    int             `json:"count"`
}

// GetInput is the argument of "get_gesture".
type GetInput struct {
	ID string `json:"id" jsonschema:"gesture id such as salam or khuda_hafiz"`
}

// GetOutput is the result of "get_gesture".
type GetOutput struct {
	Gesture gesture.Entry `json:"gesture"`
}

// NewServer returns an MCP server whose tools are backed by svc.
func NewServer(svc *translate.Service, opts ...Option) *mcpsdk.Server {
	o := options{version: defaultVersion}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = observe.DefaultMetrics()
	}
	t := &toolset{svc: svc, metrics: o.metrics}

	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: serverName, Version: o.version}, nil)
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "match_gesture",
		Description: "Find the Pakistani Sign Language gesture for a word or phrase in Urdu, Pashto or English. Returns the gesture id with its meaning in all three languages, or near-miss suggestions when nothing matches.",
	}, timed(o.metrics, "match_gesture", t.matchGesture))
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_gestures",
		Description: "List the gestures in the catalogue with their Urdu, Pashto and English meanings. Optionally restrict to one category such as greeting, family or food.",
	}, timed(o.metrics, "list_gestures", t.listGestures))
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_gesture",
		Description: "Retrieve one gesture by id. Use list_gestures or match_gesture first to discover ids.",
	}, timed(o.metrics, "get_gesture", t.getGesture))
	return server
}

// Handler serves server over the streamable HTTP transport.
func Handler(server *mcpsdk.Server) http.Handler {
	return mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server { return server }, nil)
}

type toolset struct {
	svc     *translate.Service
	metrics *observe.Metrics
}

func (t *toolset) matchGesture(ctx context.Context, _ *mcpsdk.CallToolRequest, in MatchInput) (*mcpsdk.CallToolResult, MatchOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return fail[MatchOutput](ctx, t.metrics, "match_gesture", errors.New("text must not be empty"))
	}
	lang, err := match.ParseLanguage(in.Language)
	if err != nil {
		return fail[MatchOutput](ctx, t.metrics, "match_gesture", err)
	}

	res := t.svc.Match(ctx, in.Text, lang)
	out := MatchOutput{
		GestureFound: res.Found(),
		MatchTier:    res.Tier.String(),
		Language:     string(lang),
	}
	if res.Found() {
		data := translate.DataFor(*res.Entry)
		out.Gesture = res.Entry.ID
		out.GestureData = &data
		out.MatchedKeyword = res.Keyword
	} else {
		out.Suggestions = t.svc.Suggest(in.Text)
	}
	t.metrics.RecordToolCall(ctx, "match_gesture", "ok")
	return nil, out, nil
}

func (t *toolset) listGestures(ctx context.Context, _ *mcpsdk.CallToolRequest, in ListInput) (*mcpsdk.CallToolResult, ListOutput, error) {
	cat := gesture.Category(strings.ToLower(strings.TrimSpace(in.Category)))
	if cat != "" && !cat.IsValid() {
		return fail[ListOutput](ctx, t.metrics, "list_gestures", fmt.Errorf("unknown category %q", in.Category))
	}
	entries := t.svc.Catalogue().ByCategory(cat)
	if entries == nil {
		entries = []gesture.Entry{}
	}
	t.metrics.RecordToolCall(ctx, "list_gestures", "ok")
	return nil, ListOutput{Gestures: entries, Count: len(entries)}, nil
}

func (t *toolset) getGesture(ctx context.Context, _ *mcpsdk.CallToolRequest, in GetInput) (*mcpsdk.CallToolResult, GetOutput, error) {
	e, err := t.svc.Catalogue().Lookup(strings.TrimSpace(in.ID))
	if err != nil {
		return fail[GetOutput](ctx, t.metrics, "get_gesture", err)
	}
	t.metrics.RecordToolCall(ctx, "get_gesture", "ok")
	return nil, GetOutput{Gesture: e}, nil
}

// timed records the execution latency of a tool handler.
func timed[I, O any](m *observe.Metrics, tool string, h mcpsdk.ToolHandlerFor[I, O]) mcpsdk.ToolHandlerFor[I, O] {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest, in I) (*mcpsdk.CallToolResult, O, error) {
		start := time.Now()
		res, out, err := h(ctx, req, in)
		m.RecordToolLatency(ctx, tool, time.Since(start).Seconds())
		return res, out, err
	}
}

// fail records a failed call. The SDK reports the error to the client as a
// tool error result.
func fail[O any](ctx context.Context, m *observe.Metrics, tool string, err error) (*mcpsdk.CallToolResult, O, error) {
	m.RecordToolCall(ctx, tool, "error")
	var zero O
	return nil, zero, fmt.Errorf("mcptool: %s: %w", tool, err)
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/soghomon-b/g2p/pkg/convert"
	"github.com/soghomon-b/g2p/pkg/core"
	"github.com/soghomon-b/g2p/pkg/transducer"
)

// Handlers provides the API handlers. Each request reads the converter
// snapshot once and uses it throughout.
type Handlers struct {
	snapshot func() *convert.Converter
	notifier *Notifier
	logger   *slog.Logger
}

// NewHandlers creates handlers over the snapshot returned by snapshot.
// Events streams what notifier publishes.
func NewHandlers(snapshot func() *convert.Converter, notifier *Notifier, logger *slog.Logger) *Handlers {
	return &Handlers{snapshot: snapshot, notifier: notifier, logger: logger}
}

// ConvertResponse is the body of a successful conversion.
type ConvertResponse struct {
	OutputText string                     `json:"output-text"`
	Index      [][2][2]any                `json:"index,omitempty"`
	Debugger   [][]transducer.Application `json:"debugger,omitempty"`
	Stages     []convert.StageTrace       `json:"stages,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Convert handles GET /api/v1/g2p.
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	inLang, outLang := q.Get("in-lang"), q.Get("out-lang")
	if inLang == "" || outLang == "" || !q.Has("text") {
		h.writeError(w, http.StatusBadRequest, "in-lang, out-lang and text are required")
		return
	}

	debug, err := boolParam(q.Get("debugger"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid debugger: "+err.Error())
		return
	}
	index, err := boolParam(q.Get("index"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid index: "+err.Error())
		return
	}

	conv, err := h.snapshot().Convert(inLang, outLang, q.Get("text"), convert.Options{
		Debug: debug,
		Index: index,
	})
	if err != nil {
		h.writeConvertError(w, err)
		return
	}

	resp := ConvertResponse{OutputText: conv.Output}
	if index {
		resp.Index = conv.Index.Tuples()
	}
	if debug {
		resp.Debugger = conv.Debugger()
		resp.Stages = conv.Trace()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Langs handles GET /api/v1/langs.
func (h *Handlers) Langs(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.snapshot().Network().Nodes())
}

// Descendants handles GET /api/v1/descendants/{node}.
func (h *Handlers) Descendants(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.snapshot().Network().Descendants(chi.URLParam(r, "node"))
	if err != nil {
		h.writeConvertError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, nodes)
}

// Ancestors handles GET /api/v1/ancestors/{node}.
func (h *Handlers) Ancestors(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.snapshot().Network().Ancestors(chi.URLParam(r, "node"))
	if err != nil {
		h.writeConvertError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, nodes)
}

// Events handles GET /api/v1/events. It streams a "reload" server-sent event
// after every successful reload until the client goes away, so clients know
// to re-fetch /api/v1/langs.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(events)

	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			data, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("failed to encode event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: reload\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) writeConvertError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnknownNode):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrNoPath):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func boolParam(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

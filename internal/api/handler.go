package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/richmedia/richmedia/backend-go/internal/auth"
	"github.com/richmedia/richmedia/backend-go/internal/curve"
	"github.com/richmedia/richmedia/backend-go/internal/document"
	"github.com/richmedia/richmedia/backend-go/internal/engine"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
	"github.com/richmedia/richmedia/backend-go/internal/store"
	"github.com/richmedia/richmedia/backend-go/internal/validate"
)

const (
	maxBodyBytes = 4 << 20
	defaultSteps = 64
	maxSteps     = 2000
)

type Handler struct {
	docs    *Documents
	canvas  geometry.Size
	workers int
}

// NewHandler serves the evaluation endpoints. canvas is the reference canvas
// used for validation and as the default render size.
func NewHandler(docs *Documents, canvas geometry.Size, workers int) *Handler {
	if canvas.IsEmpty() {
		canvas = geometry.ReferenceCanvas
	}
	return &Handler{docs: docs, canvas: canvas, workers: workers}
}

// Routes mounts the public endpoints on r and the snapshot endpoints under
// /api behind authMW.
func (h *Handler) Routes(r *mux.Router, authMW mux.MiddlewareFunc) {
	r.HandleFunc("/health", h.Health).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/validate", h.Validate).Methods("POST", "OPTIONS")
	v1.HandleFunc("/frame", h.Frame).Methods("POST", "OPTIONS")
	v1.HandleFunc("/thumbnails", h.Thumbnails).Methods("POST", "OPTIONS")
	v1.HandleFunc("/path/sample", h.SamplePath).Methods("POST", "OPTIONS")
	v1.HandleFunc("/presets", h.Presets).Methods("GET")
	v1.HandleFunc("/sample", h.Sample).Methods("GET")

	if h.docs == nil {
		return
	}
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMW)
	api.HandleFunc("/documents", h.SaveDocument).Methods("POST")
	api.HandleFunc("/documents/{documentId}/latest", h.LatestDocument).Methods("GET")
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type validateResponse struct {
	Valid bool          `json:"valid"`
	Error string        `json:"error,omitempty"`
	Kind  validate.Kind `json:"kind,omitempty"`
	Path  string        `json:"path,omitempty"`
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	doc, err := document.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := validate.Document(doc, validate.WithCanvas(h.canvas)); err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: true})
}

type frameRequest struct {
	Document *document.Document `json:"document"`
	Block    int                `json:"block"`
	Canvas   geometry.Size      `json:"canvas"`
	Media    geometry.Size      `json:"media"`
	Elapsed  float64            `json:"elapsed"`
}

// Frame composes one block. ?format=commands returns draw commands instead of
// the frame.
func (h *Handler) Frame(w http.ResponseWriter, r *http.Request) {
	var req frameRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.check(w, req.Document) {
		return
	}
	if req.Block < 0 || req.Block >= len(req.Document.Blocks) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("block %d out of range (document has %d)", req.Block, len(req.Document.Blocks)),
		})
		return
	}

	frame := engine.ComposeBlock(req.Document.Blocks[req.Block], h.canvasOr(req.Canvas), req.Media, req.Elapsed, engine.WithReference(h.canvas))
	if r.URL.Query().Get("format") == "commands" {
		writeJSON(w, http.StatusOK, engine.CompileDrawCommands(frame))
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

type thumbnailsRequest struct {
	Document *document.Document `json:"document"`
	Canvas   geometry.Size      `json:"canvas"`
	Elapsed  float64            `json:"elapsed"`
}

func (h *Handler) Thumbnails(w http.ResponseWriter, r *http.Request) {
	var req thumbnailsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.check(w, req.Document) {
		return
	}

	frames, err := engine.RenderThumbnails(r.Context(), req.Document, h.canvasOr(req.Canvas), req.Elapsed, h.workers, engine.WithReference(h.canvas))
	if err != nil {
		slog.Warn("render thumbnails", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "render cancelled"})
		return
	}
	writeJSON(w, http.StatusOK, frames)
}

type sampleRequest struct {
	Path   *document.Path `json:"path"`
	Canvas geometry.Size  `json:"canvas"`
	Steps  int            `json:"steps"`
}

func (h *Handler) SamplePath(w http.ResponseWriter, r *http.Request) {
	var req sampleRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Path == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path is required"})
		return
	}
	if err := validate.Path(*req.Path, "path"); err != nil {
		writeValidationError(w, err)
		return
	}

	steps := req.Steps
	if steps <= 0 {
		steps = defaultSteps
	}
	steps = min(steps, maxSteps)
	writeJSON(w, http.StatusOK, curve.Polyline(*req.Path, h.canvasOr(req.Canvas), steps))
}

type presetInfo struct {
	Preset       document.Preset   `json:"preset"`
	Category     document.Category `json:"category"`
	RequiresPath bool              `json:"requiresPath"`
}

func (h *Handler) Presets(w http.ResponseWriter, r *http.Request) {
	presets := document.Presets()
	out := make([]presetInfo, 0, len(presets))
	for _, p := range presets {
		c, _ := p.Category()
		out = append(out, presetInfo{Preset: p, Category: c, RequiresPath: p.RequiresPath()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Sample(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, document.NewSampleDocument())
}

type saveRequest struct {
	DocumentID string             `json:"documentId"`
	Document   *document.Document `json:"document"`
}

type saveResponse struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`
	Version    int    `json:"version"`
}

func (h *Handler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req saveRequest
	if !h.decode(w, r, &req) {
		return
	}

	snap, err := h.docs.Save(r.Context(), userID, req.DocumentID, req.Document)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, saveResponse{ID: snap.ID, DocumentID: snap.DocumentID, Version: snap.Version})
}

func (h *Handler) LatestDocument(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	documentID := mux.Vars(r)["documentId"]

	snap, err := h.docs.Latest(r.Context(), userID, documentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Document-Version", fmt.Sprint(snap.Version))
	w.WriteHeader(http.StatusOK)
	w.Write(snap.Document)
}

func (h *Handler) canvasOr(c geometry.Size) geometry.Size {
	if c.IsEmpty() {
		return h.canvas
	}
	return c
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// check validates doc and writes the 422 response when it fails.
func (h *Handler) check(w http.ResponseWriter, doc *document.Document) bool {
	if err := validate.Document(doc, validate.WithCanvas(h.canvas)); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, err error) {
	resp := validateResponse{Error: err.Error()}
	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		resp.Error = verr.Message
		resp.Kind = verr.Kind
		resp.Path = verr.Path
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validate.ErrInvalidDocument):
		writeValidationError(w, err)
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, store.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "version conflict, retry"})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("encode response", "status", status, "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

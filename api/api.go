// Package api exposes the ingestion pipeline over HTTP for the in-app
// upload flows: one endpoint for uploaded screenshots, one for URL
// captures, plus read access to stored examples and their media.
package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sitelens/sitelens/capture"
	"github.com/sitelens/sitelens/catalog"
	"github.com/sitelens/sitelens/ingest"
	"github.com/sitelens/sitelens/vision"
)

const maxUploadBytes = 20 << 20

// Server binds the pipeline and record store to HTTP routes.
type Server struct {
	pipe   *ingest.Pipeline
	store  *catalog.Store
	media  *catalog.FileStore
	logger *slog.Logger
}

// New creates a Server. media may be nil if screenshots are served
// elsewhere.
func New(pipe *ingest.Pipeline, store *catalog.Store, media *catalog.FileStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{pipe: pipe, store: store, media: media, logger: logger}
}

// Routes returns the HTTP router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/api/analyze", s.handleAnalyzeURL)
	r.Post("/api/screenshots", s.handleUploadScreenshot)
	r.Get("/api/examples", s.handleListExamples)
	r.Get("/api/examples/{id}", s.handleGetExample)
	if s.media != nil {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(s.media.Root())))
		r.Get("/media/*", fs.ServeHTTP)
	}
	return r
}

type analyzeRequest struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    []string `json:"category"`
	Tags        []string `json:"tags"`
}

func (s *Server) handleAnalyzeURL(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, errors.New("url is required"))
		return
	}

	res, err := s.pipe.Process(r.Context(), ingest.Item{
		Input: capture.URLInput(req.URL),
		Meta: catalog.Metadata{
			Title:       req.Title,
			Description: req.Description,
			URL:         req.URL,
			Category:    req.Category,
			Tags:        req.Tags,
		},
	})
	if err != nil {
		s.writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type screenshotRequest struct {
	// Image is a base64 payload or data URL; the multipart form field
	// "image" is the alternative for browser uploads.
	Image       string   `json:"image"`
	MIMEType    string   `json:"mimeType"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Category    []string `json:"category"`
	Tags        []string `json:"tags"`
}

func (s *Server) handleUploadScreenshot(w http.ResponseWriter, r *http.Request) {
	var (
		data     []byte
		mimeType string
		meta     catalog.Metadata
		err      error
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		data, mimeType, meta, err = readMultipart(r)
	} else {
		data, mimeType, meta, err = readJSONUpload(r)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.pipe.Process(r.Context(), ingest.Item{
		Input: capture.ImageInput(data, mimeType),
		Meta:  meta,
	})
	if err != nil {
		s.writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func readMultipart(r *http.Request) ([]byte, string, catalog.Metadata, error) {
	var meta catalog.Metadata
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", meta, fmt.Errorf("parse form: %w", err)
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", meta, fmt.Errorf("image field: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, "", meta, fmt.Errorf("read image: %w", err)
	}

	meta = catalog.Metadata{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		URL:         r.FormValue("url"),
		Category:    splitList(r.FormValue("category")),
		Tags:        splitList(r.FormValue("tags")),
	}
	return data, header.Header.Get("Content-Type"), meta, nil
}

func readJSONUpload(r *http.Request) ([]byte, string, catalog.Metadata, error) {
	var req screenshotRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&req); err != nil {
		return nil, "", catalog.Metadata{}, fmt.Errorf("decode request: %w", err)
	}
	if req.Image == "" {
		return nil, "", catalog.Metadata{}, errors.New("image is required")
	}

	payload := req.Image
	mimeType := req.MIMEType
	// Accept data URLs as the page's canvas/clipboard flows produce them.
	if strings.HasPrefix(payload, "data:") {
		rest := strings.TrimPrefix(payload, "data:")
		semi := strings.Index(rest, ";base64,")
		if semi < 0 {
			return nil, "", catalog.Metadata{}, errors.New("unsupported data URL encoding")
		}
		mimeType = rest[:semi]
		payload = rest[semi+len(";base64,"):]
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", catalog.Metadata{}, fmt.Errorf("decode image: %w", err)
	}

	meta := catalog.Metadata{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Category:    req.Category,
		Tags:        req.Tags,
	}
	return data, mimeType, meta, nil
}

func (s *Server) handleGetExample(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ex, err := s.store.Get(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleListExamples(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	list, err := s.store.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if list == nil {
		list = []catalog.WebsiteExample{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"examples": list})
}

// writePipelineError maps stage sentinels to status codes. Single-item
// flows surface the raw error message so the page can show it.
func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, capture.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, capture.ErrNavigationFailed):
		writeError(w, http.StatusBadGateway, err)
	case errors.Is(err, vision.ErrRequestFailed), errors.Is(err, vision.ErrMalformedResponse):
		writeError(w, http.StatusBadGateway, err)
	default:
		s.logger.Error("api: pipeline failure", "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

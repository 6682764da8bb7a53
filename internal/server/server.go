// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes a conversion session over HTTP for a browser
// front end. One server holds one session.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/pdiddy/folio/internal/convert"
	"github.com/pdiddy/folio/internal/httputil"
	"github.com/pdiddy/folio/pkg/types"
)

const shutdownTimeout = 10 * time.Second

// StateResponse is the JSON view of a session snapshot.
type StateResponse struct {
	State      string `json:"state"`
	Preview    string `json:"preview"`
	Processing bool   `json:"processing"`
	FileName   string `json:"file_name,omitempty"`
	Format     string `json:"format,omitempty"`
	Progress   int    `json:"progress"`
}

// ConvertRequest selects the target format for POST /api/convert.
type ConvertRequest struct {
	Format string `json:"format"`
}

// ConvertResponse is returned by POST /api/convert.
type ConvertResponse struct {
	Preview    string `json:"preview"`
	State      string `json:"state"`
	Processing bool   `json:"processing"`
}

// FormatInfo describes one supported output format.
type FormatInfo struct {
	Format string `json:"format"`
	Binary bool   `json:"binary"`
}

// Server routes HTTP requests to a convert.Session.
type Server struct {
	session *convert.Session
	cfg     types.ServerConfig
	logger  *zap.Logger
	router  chi.Router
}

// New builds the router for session.
func New(session *convert.Session, cfg types.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{session: session, cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/documents", s.handleUpload)
		api.Post("/convert", s.handleConvert)
		api.Get("/download", s.handleDownload)
		api.Post("/reset", s.handleReset)
		api.Get("/state", s.handleState)
		api.Get("/progress", s.handleProgress)
		api.Get("/formats", s.handleFormats)
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	tooLarge := fmt.Errorf("document exceeds %d bytes", s.cfg.MaxUploadBytes)
	if r.ContentLength > s.cfg.MaxUploadBytes {
		s.writeError(w, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, tooLarge)
			return
		}
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}

	s.session.Load(types.InputDocument{
		Data:     data,
		MIMEType: header.Header.Get("Content-Type"),
		FileName: header.Filename,
	})
	s.writeJSON(w, http.StatusOK, stateResponse(s.session.Snapshot()))
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := httputil.DecodeJSON(r.Body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	target, err := types.ParseFormat(req.Format)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	preview, err := s.session.Convert(r.Context(), target)
	switch {
	case errors.Is(err, convert.ErrNoDocument), errors.Is(err, convert.ErrSuperseded):
		s.writeError(w, http.StatusConflict, err)
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	snap := s.session.Snapshot()
	s.writeJSON(w, http.StatusOK, ConvertResponse{
		Preview:    preview,
		State:      snap.State.String(),
		Processing: snap.Processing,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	d, err := s.session.Download(r.Context())
	switch {
	case errors.Is(err, convert.ErrNotReady):
		s.writeError(w, http.StatusConflict, err)
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", d.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.FileName}))
	w.Header().Set("Content-Length", fmt.Sprint(len(d.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(d.Data); err != nil {
		s.logger.Warn("writing download", zap.Error(err))
	}
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.session.Reset()
	s.writeJSON(w, http.StatusOK, stateResponse(s.session.Snapshot()))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, stateResponse(s.session.Snapshot()))
}

func (s *Server) handleProgress(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]int{"progress": s.session.Progress().Value()})
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	formats := types.Formats()
	out := make([]FormatInfo, 0, len(formats))
	for _, f := range formats {
		out = append(out, FormatInfo{Format: string(f), Binary: f.Binary()})
	}
	s.writeJSON(w, http.StatusOK, map[string][]FormatInfo{"formats": out})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	if err := httputil.WriteJSON(w, status, v); err != nil {
		s.logger.Warn("writing response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	if werr := httputil.WriteError(w, status, err); werr != nil {
		s.logger.Warn("writing error response", zap.Error(werr))
	}
}

// logRequests logs one line per request with zap.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func stateResponse(snap convert.Snapshot) StateResponse {
	return StateResponse{
		State:      snap.State.String(),
		Preview:    snap.Preview,
		Processing: snap.Processing,
		FileName:   snap.FileName,
		Format:     string(snap.Target),
		Progress:   snap.Progress,
	}
}

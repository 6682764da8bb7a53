// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/folio/internal/format"
	"github.com/pdiddy/folio/internal/generate"
	"github.com/pdiddy/folio/internal/progress"
	"github.com/pdiddy/folio/pkg/types"
)

// ErrorPrefix starts the preview text shown in place of a failed conversion.
const ErrorPrefix = "PROCESSING ERROR: "

// Progress milestones published while a conversion runs.
const (
	progressStarted   = 10
	progressExtracted = 70
	progressDone      = progress.Max
)

var (
	// ErrNoDocument is returned by Convert before any document is loaded.
	ErrNoDocument = errors.New("no document loaded")

	// ErrNotReady is returned by Download when there is no preview to
	// generate from, or a generation is already running.
	ErrNotReady = errors.New("no converted preview available")

	// ErrSuperseded is returned by Convert when a reset, a new document,
	// or a newer conversion replaced it before it finished. Its result is
	// discarded.
	ErrSuperseded = errors.New("conversion superseded")
)

// State is a step of the viewer's conversion lifecycle.
type State int

const (
	StateIdle State = iota
	StateExtracting
	StatePreviewed
	StateGenerating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExtracting:
		return "extracting"
	case StatePreviewed:
		return "previewed"
	case StateGenerating:
		return "generating"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Snapshot is a consistent copy of the session's visible state.
type Snapshot struct {
	State      State
	Preview    string
	Processing bool
	FileName   string
	Target     types.Format
	Progress   int
}

// Download is a generated artifact together with its suggested file name.
type Download struct {
	types.Artifact
	FileName string
}

// Session holds the single document and preview of one viewer. It is safe
// for concurrent use; the lock is released while extraction and generation
// run.
//
// Every Load, Convert, and Reset advances a generation counter and cancels
// the in-flight conversion, if any. A conversion commits its result only if
// the counter has not moved since it started.
type Session struct {
	pipeline *Pipeline
	progress *progress.Signal
	logger   *zap.Logger

	// pubMu orders progress updates against invalidation so a stale
	// conversion cannot publish after a Load or Reset.
	pubMu sync.Mutex

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      State
	doc        *types.InputDocument
	target     types.Format
	preview    string
	processing bool
}

// NewSession returns an idle session. sig receives progress updates; a nil
// sig gets a private signal. Progress subscribers must not call Load,
// Convert, or Reset.
func NewSession(p *Pipeline, sig *progress.Signal, logger *zap.Logger) *Session {
	if sig == nil {
		sig = &progress.Signal{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{pipeline: p, progress: sig, logger: logger}
}

// Progress returns the signal the session publishes to.
func (s *Session) Progress() *progress.Signal {
	return s.progress
}

// Load replaces the held document. Any previous preview is discarded and
// the session returns to idle.
func (s *Session) Load(doc types.InputDocument) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.invalidateLocked()
	s.doc = &doc
	s.state = StateIdle
	s.target = ""
	s.preview = ""
	s.processing = false
	s.mu.Unlock()

	s.logger.Info("document loaded",
		zap.String("file", doc.FileName),
		zap.String("mime", doc.MIMEType),
		zap.Int("bytes", len(doc.Data)),
	)
	s.progress.Set(progress.Min)
}

// Convert extracts the loaded document and renders its preview for target.
// Extraction failures do not return an error: the preview becomes
// ErrorPrefix followed by the message and the session returns to idle.
func (s *Session) Convert(ctx context.Context, target types.Format) (string, error) {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return "", ErrNoDocument
	}
	s.invalidateLocked()
	gen := s.generation
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	doc := *s.doc
	s.state = StateExtracting
	s.processing = true
	s.target = target
	s.mu.Unlock()
	defer cancel()

	s.publish(gen, progressStarted)

	text, err := s.pipeline.Extract(ctx, doc, target)
	if err == nil {
		s.publish(gen, progressExtracted)
	}

	var preview string
	if err == nil {
		preview = format.Preview(text, target, s.pipeline.now())
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded conversion", zap.String("file", doc.FileName))
		return "", ErrSuperseded
	}
	s.cancel = nil
	s.processing = false
	if err != nil {
		s.logger.Warn("conversion failed", zap.String("file", doc.FileName), zap.Error(err))
		preview = ErrorPrefix + err.Error()
		s.state = StateIdle
	} else {
		s.state = StatePreviewed
	}
	s.preview = preview
	s.mu.Unlock()

	s.publish(gen, progressDone)
	return preview, nil
}

// Download generates a fresh artifact from the current preview and target.
// The session stays previewed, so downloads can be repeated. Generation
// failures are returned and leave the preview untouched.
func (s *Session) Download(ctx context.Context) (Download, error) {
	if err := ctx.Err(); err != nil {
		return Download{}, err
	}

	s.mu.Lock()
	if s.state != StatePreviewed || s.doc == nil {
		s.mu.Unlock()
		return Download{}, ErrNotReady
	}
	gen := s.generation
	text, target := s.preview, s.target
	title := generate.TitleFromFileName(s.doc.FileName)
	s.state = StateGenerating
	s.mu.Unlock()

	a, err := s.pipeline.Generate(text, target, title)

	s.mu.Lock()
	if gen == s.generation && s.state == StateGenerating {
		s.state = StatePreviewed
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("generation failed", zap.String("format", string(target)), zap.Error(err))
		return Download{}, err
	}
	return Download{Artifact: a, FileName: generate.FileName(title, a)}, nil
}

// Reset clears the document and preview and returns to idle. An in-flight
// conversion is canceled and its result discarded.
func (s *Session) Reset() {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.invalidateLocked()
	s.doc = nil
	s.state = StateIdle
	s.target = ""
	s.preview = ""
	s.processing = false
	s.mu.Unlock()

	s.progress.Set(progress.Min)
}

// Snapshot returns the current visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		State:      s.state,
		Preview:    s.preview,
		Processing: s.processing,
		Target:     s.target,
	}
	if s.doc != nil {
		snap.FileName = s.doc.FileName
	}
	s.mu.Unlock()

	snap.Progress = s.progress.Value()
	return snap
}

// IsError reports whether preview is a rendered conversion failure.
func IsError(preview string) bool {
	return strings.HasPrefix(preview, ErrorPrefix)
}

// publish sets the progress signal to v if gen is still the current
// generation.
func (s *Session) publish(gen uint64, v int) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if s.current(gen) {
		s.progress.Set(v)
	}
}

func (s *Session) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.generation
}

func (s *Session) invalidateLocked() {
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

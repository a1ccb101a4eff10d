// Package worker runs exactly one request end to end. A Session owns the
// selected device, the embedding backend and the prompt index for the
// request's duration; nothing outlives it and nothing is shared between
// invocations.
package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/picpocket/clip-classify/internal/classify"
	"github.com/picpocket/clip-classify/internal/config"
	"github.com/picpocket/clip-classify/internal/device"
	"github.com/picpocket/clip-classify/internal/domain"
	"github.com/picpocket/clip-classify/internal/embedding/clipserver"
	"github.com/picpocket/clip-classify/internal/imaging"
	"github.com/picpocket/clip-classify/internal/index"
	"github.com/picpocket/clip-classify/internal/protocol"
)

// Backend is the model capability surface the session needs: batched text
// embedding for the index and per-image embedding for classification.
type Backend interface {
	domain.TextEmbedder
	domain.ImageEmbedder
}

// BackendFactory constructs the backend for a model on a device.
type BackendFactory func(model string, dev device.Backend) (Backend, error)

// Session drives one request: decode, select device, build index, classify
// the batch, encode the response.
type Session struct {
	cfg      *config.Config
	enc      *protocol.Encoder
	log      *slog.Logger
	selector *device.Selector
	decoder  domain.Decoder
	backend  BackendFactory
}

// Option customizes a Session.
type Option func(*Session)

// WithSelector replaces the default device selector.
func WithSelector(sel *device.Selector) Option {
	return func(s *Session) { s.selector = sel }
}

// WithDecoder replaces the default file decoder.
func WithDecoder(dec domain.Decoder) Option {
	return func(s *Session) { s.decoder = dec }
}

// WithBackendFactory replaces the default clipserver backend.
func WithBackendFactory(f BackendFactory) Option {
	return func(s *Session) { s.backend = f }
}

// New creates a session writing protocol messages to out.
func New(cfg *config.Config, out io.Writer, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{
		cfg:      cfg,
		enc:      protocol.NewEncoder(out),
		log:      logger,
		selector: device.NewSelector(),
		decoder:  imaging.NewFileDecoder(),
	}
	s.backend = s.clipBackend
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) clipBackend(model string, dev device.Backend) (Backend, error) {
	return clipserver.New(clipserver.Config{
		BaseURL: s.cfg.Backend.BaseURL,
		APIKey:  s.cfg.Backend.APIKey,
		Model:   model,
		Timeout: s.cfg.Backend.Timeout(),
	}), nil
}

// Run reads the request document from in and handles it. The returned exit
// code is non-zero only for malformed input or an unknown command; per-image
// failures and model errors are reported in the response stream instead.
func (s *Session) Run(ctx context.Context, in io.Reader) int {
	req, err := protocol.DecodeRequest(in)
	if err != nil {
		s.log.Error("rejecting request", slog.Any("error", err))
		_ = s.enc.Fatal(err)
		return 1
	}

	switch req.Command {
	case protocol.CommandCheck:
		return s.runCheck()
	default:
		return s.runClassify(ctx, req)
	}
}

func (s *Session) runClassify(ctx context.Context, req *protocol.Request) int {
	if err := req.ValidateClassify(); err != nil {
		s.log.Error("rejecting request", slog.Any("error", err))
		_ = s.enc.Fatal(err)
		return 1
	}

	model := req.Config.Model
	if model == "" {
		model = s.cfg.Backend.Model
	}
	dev := s.selector.Select()
	s.log.Info("classify request",
		slog.String("device", string(dev)),
		slog.String("model", model),
		slog.Int("images", len(req.Images)))

	_ = s.enc.Status(fmt.Sprintf("Loading model on %s...", dev))
	backend, err := s.backend(model, dev)
	if err != nil {
		_ = s.enc.Fatal(fmt.Errorf("failed to load model: %w", err))
		return 0
	}

	_ = s.enc.Status("Precomputing text features...")
	idx, err := index.Build(ctx, domain.Categories(req.Config.Categories), backend)
	if err != nil {
		_ = s.enc.Fatal(err)
		return 0
	}

	classifier := classify.New(backend, s.decoder, req.Config.TopK)
	batch := classify.RunBatch(ctx, req.Images, idx, classifier, string(dev), func(current, total int) {
		_ = s.enc.Progress(current, total)
	})

	s.log.Info("classify finished",
		slog.Int("results", len(batch.Results)),
		slog.Int("errors", len(batch.Errors)))
	if err := s.enc.Result(batch); err != nil {
		s.log.Error("writing response", slog.Any("error", err))
		return 1
	}
	return 0
}

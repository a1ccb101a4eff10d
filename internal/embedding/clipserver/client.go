// Package clipserver talks to an OpenAI-compatible embeddings endpoint
// serving a CLIP-style vision-language model (e.g. an infinity or
// clip-as-service deployment). Text prompts are sent as plain string
// inputs; images are sent as base64 PNG data URIs through the same
// endpoint, which such servers accept for multimodal models.
package clipserver

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/picpocket/clip-classify/internal/domain"
)

var (
	// ErrNoEmbedding indicates the server returned no embedding data.
	ErrNoEmbedding = errors.New("no embedding returned")

	// ErrCountMismatch indicates the server returned a different number of
	// embeddings than inputs sent.
	ErrCountMismatch = errors.New("embedding count mismatch")
)

// Config configures the embeddings client.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client implements domain.TextEmbedder and domain.ImageEmbedder against a
// remote CLIP embeddings server.
type Client struct {
	client openai.Client
	model  string
}

// New creates a client for the given server and model.
func New(cfg Config) *Client {
	opts := []option.RequestOption{}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	return &Client{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// EmbedBatch embeds all texts in a single request, returning vectors in
// input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([]domain.Vector, error) {
	if len(texts) == 0 {
		return []domain.Vector{}, nil
	}
	inputs := make([]string, len(texts))
	copy(inputs, texts)

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: inputs,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embed texts: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d inputs, got %d embeddings", ErrCountMismatch, len(texts), len(resp.Data))
	}

	vectors := make([]domain.Vector, len(resp.Data))
	for i, data := range resp.Data {
		vectors[i] = domain.Vector(data.Embedding)
	}
	return vectors, nil
}

// EmbedImage embeds one decoded image by sending it as a PNG data URI.
func (c *Client) EmbedImage(ctx context.Context, img image.Image) (domain.Vector, error) {
	uri, err := dataURI(img)
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(uri),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embed image: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, ErrNoEmbedding
	}
	return domain.Vector(resp.Data[0].Embedding), nil
}

func dataURI(img image.Image) (string, error) {
	var sb strings.Builder
	sb.WriteString("data:image/png;base64,")
	w := base64.NewEncoder(base64.StdEncoding, &sb)
	if err := png.Encode(w, img); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

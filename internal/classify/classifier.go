// Package classify scores images against a prompt embedding index using
// top-k ensemble aggregation per category, and drives batches of images
// while isolating per-image failures.
package classify

import (
	"context"
	"sort"

	"github.com/picpocket/clip-classify/internal/domain"
)

// DefaultTopK is the number of best-matching prompts averaged per category
// when the request does not specify one.
const DefaultTopK = 3

// Classifier scores single images against a prompt index.
type Classifier struct {
	embedder domain.ImageEmbedder
	decoder  domain.Decoder
	topK     int
}

// New creates a classifier. A non-positive topK falls back to DefaultTopK.
func New(embedder domain.ImageEmbedder, decoder domain.Decoder, topK int) *Classifier {
	if topK < 1 {
		topK = DefaultTopK
	}
	return &Classifier{embedder: embedder, decoder: decoder, topK: topK}
}

// Classify decodes and embeds one image and scores it against every
// category in the index. Decode and inference failures are returned as
// Failure outcomes rather than errors, so a bad file never aborts a batch.
func (c *Classifier) Classify(ctx context.Context, path string, idx *domain.PromptIndex) domain.Outcome {
	img, err := c.decoder.Decode(path)
	if err != nil {
		return failure(path, err)
	}

	vec, err := c.embedder.EmbedImage(ctx, img)
	if err != nil {
		return failure(path, err)
	}
	unit, err := vec.Normalized()
	if err != nil {
		return failure(path, err)
	}

	similarities := make([]float64, len(idx.Vectors))
	for i, row := range idx.Vectors {
		similarities[i] = unit.Dot(row)
	}

	scores := make(map[string]float64, len(idx.Order))
	var best string
	var bestScore float64
	for i, name := range idx.Order {
		score := topKMean(similarities, idx.Rows[name], c.topK)
		scores[name] = score
		// Strict > keeps the earliest-declared category on ties.
		if i == 0 || score > bestScore {
			best = name
			bestScore = score
		}
	}

	return domain.Outcome{Result: &domain.Result{
		Path:       path,
		Category:   best,
		Confidence: bestScore,
		Scores:     scores,
	}}
}

// topKMean averages the k highest similarity values among the given rows,
// clipping k to the number of rows.
func topKMean(similarities []float64, rows []int, k int) float64 {
	vals := make([]float64, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, similarities[r])
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(vals)))
	if k > len(vals) {
		k = len(vals)
	}
	sum := 0.0
	for _, v := range vals[:k] {
		sum += v
	}
	return sum / float64(k)
}

func failure(path string, err error) domain.Outcome {
	return domain.Outcome{Error: &domain.ImageError{Path: path, Error: err.Error()}}
}

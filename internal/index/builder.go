// Package index builds the prompt embedding index of a classify request:
// a matrix of unit-normalized text embeddings, one row per prompt, grouped
// by the category each prompt belongs to.
package index

import (
	"context"
	"fmt"

	"github.com/picpocket/clip-classify/internal/domain"
)

// Build flattens the categories into a single prompt list, embeds it in one
// batched call, normalizes every vector to unit L2 norm and records which
// rows belong to which category. A failed embedding call is fatal to the
// whole request: no partial index is usable.
func Build(ctx context.Context, categories domain.Categories, embedder domain.TextEmbedder) (*domain.PromptIndex, error) {
	var prompts []string
	var rowCategory []string
	for _, cat := range categories {
		for _, p := range cat.Prompts {
			prompts = append(prompts, p)
			rowCategory = append(rowCategory, cat.Name)
		}
	}

	vectors, err := embedder.EmbedBatch(ctx, prompts)
	if err != nil {
		return nil, fmt.Errorf("embed prompts: %w", err)
	}
	if len(vectors) != len(prompts) {
		return nil, fmt.Errorf("embed prompts: got %d vectors for %d prompts", len(vectors), len(prompts))
	}

	normalized := make([]domain.Vector, len(vectors))
	for i, v := range vectors {
		nv, err := v.Normalized()
		if err != nil {
			return nil, fmt.Errorf("prompt %q: %w", prompts[i], err)
		}
		normalized[i] = nv
	}

	rows := make(map[string][]int, len(categories))
	for i, name := range rowCategory {
		rows[name] = append(rows[name], i)
	}

	return &domain.PromptIndex{
		Vectors: normalized,
		Rows:    rows,
		Order:   categories.Names(),
	}, nil
}

package domain

import (
	"context"
	"image"
)

// TextEmbedder produces embedding vectors for a batch of text prompts.
// Implementations must return one vector per input, in input order.
type TextEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([]Vector, error)
}

// ImageEmbedder produces an embedding vector for a decoded image.
type ImageEmbedder interface {
	EmbedImage(ctx context.Context, img image.Image) (Vector, error)
}

// Decoder loads an image file into a pixel buffer.
type Decoder interface {
	Decode(path string) (image.Image, error)
}

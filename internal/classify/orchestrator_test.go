package classify_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picpocket/clip-classify/internal/classify"
	"github.com/picpocket/clip-classify/internal/domain"
)

// pathDecoder fails for the configured paths and records an event per call.
type pathDecoder struct {
	failing map[string]bool
	events  *[]string
}

func (d *pathDecoder) Decode(path string) (image.Image, error) {
	if d.events != nil {
		*d.events = append(*d.events, "decode "+path)
	}
	if d.failing[path] {
		return nil, errors.New("unreadable file")
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func TestRunBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	idx := &domain.PromptIndex{
		Vectors: []domain.Vector{{1, 0}},
		Rows:    map[string][]int{"a": {0}},
		Order:   []string{"a"},
	}
	embedder := &stubImageEmbedder{vec: domain.Vector{1, 0}}

	t.Run("partitions outcomes preserving input order", func(t *testing.T) {
		paths := []string{"1.jpg", "bad1.jpg", "2.jpg", "bad2.jpg", "3.jpg"}
		decoder := &pathDecoder{failing: map[string]bool{"bad1.jpg": true, "bad2.jpg": true}}
		cls := classify.New(embedder, decoder, 1)

		batch := classify.RunBatch(ctx, paths, idx, cls, "cpu", nil)

		assert.Equal(t, "cpu", batch.Device)
		require.Len(t, batch.Results, 3)
		require.Len(t, batch.Errors, 2)
		assert.Equal(t, "1.jpg", batch.Results[0].Path)
		assert.Equal(t, "2.jpg", batch.Results[1].Path)
		assert.Equal(t, "3.jpg", batch.Results[2].Path)
		assert.Equal(t, "bad1.jpg", batch.Errors[0].Path)
		assert.Equal(t, "bad2.jpg", batch.Errors[1].Path)
	})

	t.Run("each path lands in exactly one list", func(t *testing.T) {
		paths := []string{"1.jpg", "bad.jpg", "2.jpg"}
		decoder := &pathDecoder{failing: map[string]bool{"bad.jpg": true}}
		cls := classify.New(embedder, decoder, 1)

		batch := classify.RunBatch(ctx, paths, idx, cls, "cpu", nil)

		seen := make(map[string]int)
		for _, r := range batch.Results {
			seen[r.Path]++
		}
		for _, e := range batch.Errors {
			seen[e.Path]++
		}
		require.Len(t, seen, len(paths))
		for _, count := range seen {
			assert.Equal(t, 1, count)
		}
	})

	t.Run("progress fires before each image is scored", func(t *testing.T) {
		var events []string
		decoder := &pathDecoder{events: &events}
		cls := classify.New(embedder, decoder, 1)

		classify.RunBatch(ctx, []string{"a.jpg", "b.jpg"}, idx, cls, "cpu", func(current, total int) {
			events = append(events, fmt.Sprintf("progress %d/%d", current, total))
		})

		assert.Equal(t, []string{
			"progress 1/2",
			"decode a.jpg",
			"progress 2/2",
			"decode b.jpg",
		}, events)
	})

	t.Run("empty batch succeeds with no progress", func(t *testing.T) {
		progressCalls := 0
		cls := classify.New(embedder, &pathDecoder{}, 1)

		batch := classify.RunBatch(ctx, nil, idx, cls, "cuda", func(int, int) {
			progressCalls++
		})

		assert.Equal(t, 0, progressCalls)
		assert.NotNil(t, batch.Results)
		assert.NotNil(t, batch.Errors)
		assert.Empty(t, batch.Results)
		assert.Empty(t, batch.Errors)
		assert.Equal(t, "cuda", batch.Device)
	})
}

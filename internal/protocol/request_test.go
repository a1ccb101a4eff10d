package protocol_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picpocket/clip-classify/internal/domain"
	"github.com/picpocket/clip-classify/internal/protocol"
)

func TestDecodeRequest(t *testing.T) {
	t.Parallel()

	t.Run("classify request with ordered categories", func(t *testing.T) {
		input := `{
			"command": "classify",
			"config": {
				"model": "openai/clip-vit-base-patch32",
				"categories": {"zebra": ["p1"], "aardvark": ["p2", "p3"], "mango": ["p4"]},
				"topK": 2
			},
			"images": ["a.jpg", "b.png"]
		}`
		req, err := protocol.DecodeRequest(strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, protocol.CommandClassify, req.Command)
		assert.Equal(t, "openai/clip-vit-base-patch32", req.Config.Model)
		assert.Equal(t, 2, req.Config.TopK)
		assert.Equal(t, []string{"a.jpg", "b.png"}, req.Images)

		// JSON object order must survive decoding: tie-breaking depends on it.
		cats := domain.Categories(req.Config.Categories)
		assert.Equal(t, []string{"zebra", "aardvark", "mango"}, cats.Names())
		assert.Equal(t, []string{"p2", "p3"}, cats[1].Prompts)
	})

	t.Run("missing command defaults to classify", func(t *testing.T) {
		req, err := protocol.DecodeRequest(strings.NewReader(`{"images": []}`))
		require.NoError(t, err)
		assert.Equal(t, protocol.CommandClassify, req.Command)
	})

	t.Run("check command", func(t *testing.T) {
		req, err := protocol.DecodeRequest(strings.NewReader(`{"command": "check"}`))
		require.NoError(t, err)
		assert.Equal(t, protocol.CommandCheck, req.Command)
	})

	t.Run("unknown command is rejected", func(t *testing.T) {
		_, err := protocol.DecodeRequest(strings.NewReader(`{"command": "frobnicate"}`))
		require.ErrorIs(t, err, protocol.ErrUnknownCommand)
		assert.Contains(t, err.Error(), "frobnicate")
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		_, err := protocol.DecodeRequest(strings.NewReader(`{not json`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON input")
	})

	t.Run("categories must be an object", func(t *testing.T) {
		_, err := protocol.DecodeRequest(strings.NewReader(`{"config": {"categories": ["nope"]}}`))
		require.Error(t, err)
	})
}

func TestValidateClassify(t *testing.T) {
	t.Parallel()

	valid := func() *protocol.Request {
		return &protocol.Request{
			Command: protocol.CommandClassify,
			Config: protocol.RequestConfig{
				Categories: protocol.CategorySet{
					{Name: "cat", Prompts: []string{"a photo of a cat"}},
					{Name: "dog", Prompts: []string{"a photo of a dog"}},
				},
			},
		}
	}

	t.Run("accepts a well-formed request", func(t *testing.T) {
		assert.NoError(t, valid().ValidateClassify())
	})

	t.Run("rejects missing categories", func(t *testing.T) {
		req := valid()
		req.Config.Categories = nil
		require.ErrorIs(t, req.ValidateClassify(), protocol.ErrNoCategories)
	})

	t.Run("rejects a category without prompts", func(t *testing.T) {
		req := valid()
		req.Config.Categories[1].Prompts = nil
		err := req.ValidateClassify()
		require.ErrorIs(t, err, protocol.ErrEmptyCategory)
		assert.Contains(t, err.Error(), "dog")
	})

	t.Run("rejects duplicate category names", func(t *testing.T) {
		req := valid()
		req.Config.Categories[1].Name = "cat"
		require.ErrorIs(t, req.ValidateClassify(), protocol.ErrDuplicateCategory)
	})
}

// Package protocol defines the line-oriented JSON messages exchanged with
// the parent process: one request document on the input channel, a stream
// of status/progress/result messages on the output channel.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/picpocket/clip-classify/internal/domain"
)

// Commands accepted in a request document.
const (
	CommandClassify = "classify"
	CommandCheck    = "check"
)

var (
	// ErrUnknownCommand indicates a command outside the accepted enum.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNoCategories indicates a classify request without categories.
	ErrNoCategories = errors.New("no categories defined")

	// ErrEmptyCategory indicates a category with zero prompts.
	ErrEmptyCategory = errors.New("category has no prompts")

	// ErrDuplicateCategory indicates a category name declared twice.
	ErrDuplicateCategory = errors.New("duplicate category")
)

// Request is the single document read from the input channel.
type Request struct {
	Command string        `json:"command"`
	Config  RequestConfig `json:"config"`
	Images  []string      `json:"images"`
}

// RequestConfig carries the classify parameters.
type RequestConfig struct {
	Model      string      `json:"model"`
	Categories CategorySet `json:"categories"`
	TopK       int         `json:"topK"`
}

// CategorySet is an ordered name-to-prompts mapping. Plain Go maps lose
// JSON object key order, so it is decoded from the token stream instead:
// tie-breaking depends on declaration order.
type CategorySet domain.Categories

// UnmarshalJSON decodes a JSON object into categories preserving key order.
func (c *CategorySet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("categories must be a JSON object")
	}
	var out domain.Categories
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name := keyTok.(string)
		var prompts []string
		if err := dec.Decode(&prompts); err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}
		out = append(out, domain.Category{Name: name, Prompts: prompts})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = CategorySet(out)
	return nil
}

// DecodeRequest reads and validates the whole request document.
// A missing command defaults to classify.
func DecodeRequest(r io.Reader) (*Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON input: %w", err)
	}
	if req.Command == "" {
		req.Command = CommandClassify
	}
	switch req.Command {
	case CommandClassify, CommandCheck:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, req.Command)
	}
	return &req, nil
}

// ValidateClassify checks the classify parameters beyond JSON well-formedness.
func (r *Request) ValidateClassify() error {
	if len(r.Config.Categories) == 0 {
		return ErrNoCategories
	}
	seen := make(map[string]struct{}, len(r.Config.Categories))
	for _, cat := range r.Config.Categories {
		if _, ok := seen[cat.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, cat.Name)
		}
		seen[cat.Name] = struct{}{}
		if len(cat.Prompts) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyCategory, cat.Name)
		}
	}
	return nil
}

package domain

// Category is a user-defined label with the text prompts describing it.
type Category struct {
	Name    string
	Prompts []string
}

// Categories is the ordered category set of one request. Declaration order
// is significant: score ties are broken in favor of the earliest category.
type Categories []Category

// Names returns the category names in declaration order.
func (c Categories) Names() []string {
	names := make([]string, len(c))
	for i, cat := range c {
		names[i] = cat.Name
	}
	return names
}

// PromptIndex holds the unit-normalized prompt embeddings of one request,
// one row per prompt in flattening order, plus the category grouping.
// It is immutable once built.
type PromptIndex struct {
	Vectors []Vector
	Rows    map[string][]int
	Order   []string
}

// Result is a successful classification of a single image.
type Result struct {
	Path       string
	Category   string
	Confidence float64
	Scores     map[string]float64
}

// ImageError records a per-image failure that did not abort the batch.
type ImageError struct {
	Path  string
	Error string
}

// Outcome is the result of classifying one image.
// Exactly one of Result or Error is non-nil.
type Outcome struct {
	Result *Result
	Error  *ImageError
}

// BatchResult is the final outcome of a classify request. Results and
// Errors each preserve the relative input order of their paths.
type BatchResult struct {
	Device  string
	Results []Result
	Errors  []ImageError
}

package classify

import (
	"context"

	"github.com/picpocket/clip-classify/internal/domain"
)

// ProgressFunc receives a heartbeat before each image is scored.
// Current is 1-indexed.
type ProgressFunc func(current, total int)

// RunBatch classifies the given paths strictly in input order, reporting
// progress before each image so a consumer sees a heartbeat even on slow
// items. Successes and failures are partitioned into the two result lists,
// each preserving relative input order. An empty path list completes
// successfully with both lists empty and no progress reported.
func RunBatch(ctx context.Context, paths []string, idx *domain.PromptIndex, classifier *Classifier, device string, progress ProgressFunc) domain.BatchResult {
	batch := domain.BatchResult{
		Device:  device,
		Results: []domain.Result{},
		Errors:  []domain.ImageError{},
	}
	total := len(paths)
	for i, path := range paths {
		if progress != nil {
			progress(i+1, total)
		}
		outcome := classifier.Classify(ctx, path, idx)
		if outcome.Result != nil {
			batch.Results = append(batch.Results, *outcome.Result)
		} else {
			batch.Errors = append(batch.Errors, *outcome.Error)
		}
	}
	return batch
}

package pipeline

import (
	"context"

	"github.com/siherrmann/headliner/model"
)

// AnnotateFunc applies a NER model to one headline.
// Cancelling ctx should abort a request that is in flight.
// The returned document holds the text and the predicted spans in text order.
type AnnotateFunc func(ctx context.Context, text string) (*model.AnnotatedDocument, error)

// ProgressFunc observes the annotation loop. It is called with (0, total)
// before the first headline and after every annotated headline.
type ProgressFunc func(done, total int)

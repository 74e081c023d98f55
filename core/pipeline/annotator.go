package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/siherrmann/headliner/helper"
	"github.com/siherrmann/headliner/model"
)

// Annotator applies an injected model to a sample of headlines
type Annotator struct {
	annotate AnnotateFunc
	progress ProgressFunc
	log      *slog.Logger
}

// NewAnnotator creates an annotator around the given model capability
func NewAnnotator(annotate AnnotateFunc) *Annotator {
	return &Annotator{
		annotate: annotate,
		log:      slog.Default(),
	}
}

// SetAnnotate replaces the model capability
func (a *Annotator) SetAnnotate(annotate AnnotateFunc) {
	a.annotate = annotate
}

// SetProgress sets the progress observer, nil disables reporting
func (a *Annotator) SetProgress(progress ProgressFunc) {
	a.progress = progress
}

// SetLogger sets the logger
func (a *Annotator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		a.log = logger
	}
}

// Annotate applies the model to every headline in order and returns one
// document per headline. The first model error aborts the run.
func (a *Annotator) Annotate(ctx context.Context, headlines []string) ([]*model.AnnotatedDocument, error) {
	if a.annotate == nil {
		return nil, helper.NewError("annotate", fmt.Errorf("annotate function not set"))
	}

	total := len(headlines)
	docs := make([]*model.AnnotatedDocument, 0, total)
	a.report(0, total)

	for i, headline := range headlines {
		if err := ctx.Err(); err != nil {
			return nil, helper.NewError(fmt.Sprintf("annotate headline %d", i), err)
		}

		doc, err := a.annotate(ctx, headline)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("annotate headline %d", i), err)
		}
		if doc == nil {
			return nil, helper.NewError(fmt.Sprintf("annotate headline %d", i), fmt.Errorf("model returned no document"))
		}

		if doc.RID == uuid.Nil {
			doc.RID = uuid.New()
		}
		if doc.Text == "" {
			doc.Text = headline
		}
		doc.SampleIndex = i
		doc.LinkEntities()

		docs = append(docs, doc)
		a.report(i+1, total)
	}

	a.log.Debug("Annotated headlines", slog.Int("documents", len(docs)))

	return docs, nil
}

func (a *Annotator) report(done, total int) {
	if a.progress != nil {
		a.progress(done, total)
	}
}

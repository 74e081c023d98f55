package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/headliner/helper"
	"github.com/siherrmann/headliner/model"
)

// conllToOntoNotes maps the CoNLL-2003 labels of most token classification
// models onto the OntoNotes names used by the default label set.
// Labels without an entry are kept as they are.
var conllToOntoNotes = map[string]string{
	"PER": "PERSON",
	"LOC": "LOC",
	"ORG": "ORG",
}

// HugotAnnotator runs a local ONNX token classification model through hugot
type HugotAnnotator struct {
	session  *hugot.Session
	pipeline *pipelines.TokenClassificationPipeline
}

// NewHugotAnnotator prepares the model and creates a NER pipeline on the Go backend.
// Detects: PERSON, ORG, LOC, MISC entities with the default distilbert-NER model.
func NewHugotAnnotator(modelName string, onnxFilePath string) (*HugotAnnotator, error) {
	modelPath, err := helper.PrepareModel(modelName, onnxFilePath)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "headliner-ner",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}),
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	return &HugotAnnotator{
		session:  session,
		pipeline: nerPipeline,
	}, nil
}

// Annotate implements AnnotateFunc. Inference itself cannot be interrupted,
// ctx is checked before it starts.
func (h *HugotAnnotator) Annotate(ctx context.Context, text string) (*model.AnnotatedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := h.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to run NER: %w", err)
	}

	spans := []*model.EntitySpan{}
	if len(result.Entities) > 0 {
		for _, entity := range result.Entities[0] {
			span := &model.EntitySpan{
				Text:     strings.TrimSpace(entity.Word),
				Label:    mapLabel(normalizeEntityType(entity.Entity)),
				Start:    int(entity.Start),
				End:      int(entity.End),
				Metadata: model.Metadata{model.MetadataKeyScore: entity.Score},
			}
			// prefer the exact surface text over the detokenized word
			if span.InBounds(len(text)) && span.End > span.Start {
				span.Text = text[span.Start:span.End]
			}
			spans = append(spans, span)
		}
	}

	return model.NewAnnotatedDocument(text, spans), nil
}

// Close destroys the hugot session
func (h *HugotAnnotator) Close() error {
	if h.session == nil {
		return nil
	}
	return h.session.Destroy()
}

// normalizeEntityType removes B- and I- prefixes from NER labels
func normalizeEntityType(label string) string {
	if strings.HasPrefix(label, "B-") || strings.HasPrefix(label, "I-") {
		return label[2:]
	}
	return label
}

func mapLabel(label string) string {
	if mapped, ok := conllToOntoNotes[label]; ok {
		return mapped
	}
	return label
}

package pipeline

import (
	"context"
	"os"
	"testing"

	"github.com/siherrmann/headliner/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHugotAnnotator(t *testing.T) {
	// Downloads the distilbert-NER model on first use
	if os.Getenv("HEADLINER_MODEL_TESTS") == "" {
		t.Skip("set HEADLINER_MODEL_TESTS to run model tests")
	}

	annotator, err := NewHugotAnnotator(model.DefaultModel, "model.onnx")
	require.NoError(t, err)
	defer annotator.Close()

	t.Run("Annotate headline with entities", func(t *testing.T) {
		doc, err := annotator.Annotate(context.Background(), "John visited Paris")
		require.NoError(t, err)
		assert.Equal(t, "John visited Paris", doc.Text)

		for _, span := range doc.Entities {
			t.Logf("  - %s (%s) [%d:%d]", span.Text, span.Label, span.Start, span.End)
			assert.Equal(t, doc.RID, span.DocumentRID)
			assert.True(t, span.InBounds(len(doc.Text)))
		}
	})

	t.Run("Annotate headline without entities", func(t *testing.T) {
		doc, err := annotator.Annotate(context.Background(), "cats are cute")
		require.NoError(t, err)
		t.Logf("Detected %d entities (expected 0 or few)", len(doc.Entities))
	})
}

func TestNormalizeEntityType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"B-PER", "PER"},
		{"I-PER", "PER"},
		{"B-LOC", "LOC"},
		{"I-ORG", "ORG"},
		{"MISC", "MISC"},
		{"O", "O"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeEntityType(tt.input))
		})
	}
}

func TestMapLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"PER", "PERSON"},
		{"LOC", "LOC"},
		{"ORG", "ORG"},
		{"MISC", "MISC"},
		{"GPE", "GPE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapLabel(tt.input))
		})
	}
}

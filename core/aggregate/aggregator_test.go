package aggregate

import (
	"fmt"
	"testing"

	"github.com/siherrmann/headliner/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(text, label string) *model.EntitySpan {
	return &model.EntitySpan{Text: text, Label: label}
}

func corpus() []*model.AnnotatedDocument {
	return []*model.AnnotatedDocument{
		model.NewAnnotatedDocument("Cats are cute", nil),
		model.NewAnnotatedDocument("Paris is lovely", []*model.EntitySpan{span("Paris", "GPE")}),
		model.NewAnnotatedDocument("John visited Paris", []*model.EntitySpan{span("John", "PERSON"), span("Paris", "GPE")}),
		model.NewAnnotatedDocument("Linux 6 released", []*model.EntitySpan{span("Linux", "MISC"), span("6", "CARDINAL")}),
	}
}

func TestBuildIndex(t *testing.T) {
	t.Run("Groups spans per label in document then span order", func(t *testing.T) {
		docs := corpus()

		index := BuildIndex(docs, model.DefaultLabels)

		gpe := index.Get("GPE")
		require.Len(t, gpe, 2)
		assert.Same(t, docs[1].Entities[0], gpe[0])
		assert.Same(t, docs[2].Entities[1], gpe[1])
		assert.Equal(t, docs[1].RID, gpe[0].DocumentRID)
		assert.Equal(t, docs[2].RID, gpe[1].DocumentRID)

		assert.Equal(t, []string{"John"}, index.Texts("PERSON"))
		assert.Equal(t, []string{"6"}, index.Texts("CARDINAL"))
		assert.Empty(t, index.Get("LOC"))
		assert.NotNil(t, index.Get("LOC"), "Expected every recognized label to have a bucket")
	})

	t.Run("Every span in a bucket carries the bucket label", func(t *testing.T) {
		index := BuildIndex(corpus(), model.DefaultLabels)

		for label, bucket := range index.Buckets {
			for _, s := range bucket {
				assert.Equal(t, label, s.Label)
			}
		}
	})

	t.Run("Unrecognized labels are excluded", func(t *testing.T) {
		docs := corpus()

		index := BuildIndex(docs, model.DefaultLabels)

		assert.False(t, index.Has("MISC"))
		assert.Equal(t, 4, index.Count())
		assert.Equal(t, CountRecognized(docs, model.DefaultLabels), index.Count())
	})

	t.Run("Completeness over a larger corpus", func(t *testing.T) {
		labels := []string{"GPE", "PERSON", "ORG"}
		all := []string{"GPE", "PERSON", "ORG", "MISC", "DATE"}
		docs := make([]*model.AnnotatedDocument, 0, 50)
		for i := 0; i < 50; i++ {
			spans := []*model.EntitySpan{}
			for j := 0; j < i%4; j++ {
				spans = append(spans, span(fmt.Sprintf("e%d-%d", i, j), all[(i+j)%len(all)]))
			}
			docs = append(docs, model.NewAnnotatedDocument(fmt.Sprintf("doc %d", i), spans))
		}

		index := BuildIndex(docs, labels)

		assert.Equal(t, CountRecognized(docs, labels), index.Count())
		assert.Equal(t, labels, index.Labels)
	})

	t.Run("Re-running gives identical order", func(t *testing.T) {
		docs := corpus()

		first := BuildIndex(docs, model.DefaultLabels)
		second := BuildIndex(docs, model.DefaultLabels)

		for _, label := range first.Labels {
			assert.Equal(t, first.Get(label), second.Get(label))
		}
	})

	t.Run("Duplicate spans are kept", func(t *testing.T) {
		docs := []*model.AnnotatedDocument{
			model.NewAnnotatedDocument("Paris Paris", []*model.EntitySpan{span("Paris", "GPE"), span("Paris", "GPE")}),
		}

		index := BuildIndex(docs, []string{"GPE"})
		assert.Len(t, index.Get("GPE"), 2)
	})

	t.Run("Duplicate labels are collapsed", func(t *testing.T) {
		index := BuildIndex(corpus(), []string{"GPE", "GPE"})

		assert.Equal(t, []string{"GPE"}, index.Labels)
		assert.Len(t, index.Get("GPE"), 2)
	})

	t.Run("Nil documents and spans are skipped", func(t *testing.T) {
		docs := []*model.AnnotatedDocument{
			nil,
			{Text: "Paris", Entities: []*model.EntitySpan{nil, span("Paris", "GPE")}},
		}

		index := BuildIndex(docs, []string{"GPE"})
		assert.Equal(t, []string{"Paris"}, index.Texts("GPE"))
	})

	t.Run("No documents yields empty buckets", func(t *testing.T) {
		index := BuildIndex(nil, []string{"GPE", "LOC"})

		assert.Equal(t, 0, index.Count())
		assert.Equal(t, []string{"GPE", "LOC"}, index.Labels)
	})

	t.Run("Documents are not modified", func(t *testing.T) {
		docs := corpus()
		before := len(docs[2].Entities)

		_ = BuildIndex(docs, []string{"GPE"})
		assert.Len(t, docs[2].Entities, before)
	})
}

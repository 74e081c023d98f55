package visualize

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/siherrmann/headliner/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer() (*Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	renderer := NewRenderer(&buf)
	renderer.SetColor(false)
	return renderer, &buf
}

func johnVisitedParis() *model.AnnotatedDocument {
	return model.NewAnnotatedDocument("John visited Paris", []*model.EntitySpan{
		{Text: "Paris", Label: "GPE", Start: 13, End: 18},
		{Text: "John", Label: "PERSON", Start: 0, End: 4},
	})
}

func TestRendererRender(t *testing.T) {
	t.Run("Highlights spans with labels", func(t *testing.T) {
		renderer, buf := newTestRenderer()

		err := renderer.Render(johnVisitedParis())
		require.NoError(t, err)
		assert.Equal(t, "[John PERSON] visited [Paris GPE]\n", buf.String())
	})

	t.Run("Does not mutate the document", func(t *testing.T) {
		renderer, _ := newTestRenderer()
		doc := johnVisitedParis()

		require.NoError(t, renderer.Render(doc))
		assert.Equal(t, "Paris", doc.Entities[0].Text, "Expected span order to be untouched")
		assert.Equal(t, "John visited Paris", doc.Text)
	})

	t.Run("Uses colour escapes when enabled", func(t *testing.T) {
		var buf bytes.Buffer
		renderer := NewRenderer(&buf)
		renderer.SetColor(true)

		require.NoError(t, renderer.Render(johnVisitedParis()))
		assert.Contains(t, buf.String(), "\x1b[")
		assert.Contains(t, buf.String(), "John PERSON")
	})

	t.Run("Unknown label uses the default colour", func(t *testing.T) {
		renderer, buf := newTestRenderer()
		doc := model.NewAnnotatedDocument("Go MISC", []*model.EntitySpan{{Text: "Go", Label: "MISC", Start: 0, End: 2}})

		require.NoError(t, renderer.Render(doc))
		assert.Equal(t, "[Go MISC] MISC\n", buf.String())
	})

	t.Run("Document without entities writes text and fails", func(t *testing.T) {
		renderer, buf := newTestRenderer()

		err := renderer.Render(model.NewAnnotatedDocument("Cats are cute", nil))
		assert.ErrorIs(t, err, ErrNoEntities)
		assert.Equal(t, "Cats are cute\n", buf.String())
	})

	t.Run("Span outside text fails", func(t *testing.T) {
		renderer, buf := newTestRenderer()
		doc := model.NewAnnotatedDocument("Paris", []*model.EntitySpan{{Text: "Paris!", Label: "GPE", Start: 0, End: 6}})

		err := renderer.Render(doc)
		assert.ErrorIs(t, err, ErrInvalidSpan)
		assert.Empty(t, buf.String())
	})

	t.Run("Overlapping spans fail", func(t *testing.T) {
		renderer, _ := newTestRenderer()
		doc := model.NewAnnotatedDocument("New York City", []*model.EntitySpan{
			{Text: "New York", Label: "GPE", Start: 0, End: 8},
			{Text: "York City", Label: "GPE", Start: 4, End: 13},
		})

		assert.ErrorIs(t, renderer.Render(doc), ErrOverlappingSpans)
	})
}

func TestRendererRenderAll(t *testing.T) {
	t.Run("A failing document does not stop the rest", func(t *testing.T) {
		renderer, buf := newTestRenderer()
		docs := []*model.AnnotatedDocument{
			johnVisitedParis(),
			model.NewAnnotatedDocument("Paris", []*model.EntitySpan{{Label: "GPE", Start: 3, End: 99}}),
			model.NewAnnotatedDocument("Cats are cute", nil),
			model.NewAnnotatedDocument("Rome wins", []*model.EntitySpan{{Text: "Rome", Label: "GPE", Start: 0, End: 4}}),
		}

		rendered, err := renderer.RenderAll(docs)
		assert.Equal(t, 3, rendered)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSpan)
		assert.Contains(t, err.Error(), "document 1")
		assert.NotErrorIs(t, err, ErrNoEntities, "Expected plain documents to not be failures")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Equal(t, []string{
			"[John PERSON] visited [Paris GPE]",
			"Cats are cute",
			"[Rome GPE] wins",
		}, lines)
	})

	t.Run("Documents without entities are not warned about", func(t *testing.T) {
		renderer, buf := newTestRenderer()
		var logs bytes.Buffer
		renderer.SetLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo})))

		docs := []*model.AnnotatedDocument{
			model.NewAnnotatedDocument("Cats are cute", nil),
			model.NewAnnotatedDocument("Markets steady", nil),
		}

		rendered, err := renderer.RenderAll(docs)
		assert.NoError(t, err)
		assert.Equal(t, 2, rendered)
		assert.Equal(t, "Cats are cute\nMarkets steady\n", buf.String())
		assert.Empty(t, logs.String(), "Expected no log lines above debug level")
	})

	t.Run("All documents rendered returns no error", func(t *testing.T) {
		renderer, _ := newTestRenderer()

		rendered, err := renderer.RenderAll([]*model.AnnotatedDocument{johnVisitedParis(), johnVisitedParis()})
		assert.NoError(t, err)
		assert.Equal(t, 2, rendered)
	})

	t.Run("Empty batch renders nothing", func(t *testing.T) {
		renderer, buf := newTestRenderer()

		rendered, err := renderer.RenderAll(nil)
		assert.NoError(t, err)
		assert.Equal(t, 0, rendered)
		assert.Empty(t, buf.String())
	})
}

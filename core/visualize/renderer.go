// Package visualize renders annotated documents for human inspection.
package visualize

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/siherrmann/headliner/model"
)

var (
	// ErrNoEntities is returned for a document without entity spans.
	// The plain text is still written.
	ErrNoEntities = errors.New("document has no entities")
	// ErrInvalidSpan is returned for span offsets outside the document text
	ErrInvalidSpan = errors.New("span outside document text")
	// ErrOverlappingSpans is returned when two spans share characters
	ErrOverlappingSpans = errors.New("overlapping spans")
)

// labelColors follows the displaCy palette as close as terminal colours allow
var labelColors = map[string][]color.Attribute{
	"PERSON":      {color.BgHiMagenta, color.FgBlack},
	"NORP":        {color.BgYellow, color.FgBlack},
	"FAC":         {color.BgHiYellow, color.FgBlack},
	"ORG":         {color.BgHiCyan, color.FgBlack},
	"GPE":         {color.BgHiYellow, color.FgBlack},
	"LOC":         {color.BgHiYellow, color.FgBlack},
	"PRODUCT":     {color.BgCyan, color.FgBlack},
	"EVENT":       {color.BgHiGreen, color.FgBlack},
	"WORK_OF_ART": {color.BgHiRed, color.FgBlack},
	"LAW":         {color.BgRed, color.FgWhite},
	"LANGUAGE":    {color.BgGreen, color.FgBlack},
	"DATE":        {color.BgHiBlue, color.FgBlack},
	"TIME":        {color.BgBlue, color.FgWhite},
	"PERCENT":     {color.BgMagenta, color.FgWhite},
	"MONEY":       {color.BgGreen, color.FgWhite},
	"QUANTITY":    {color.BgHiWhite, color.FgBlack},
	"ORDINAL":     {color.BgHiWhite, color.FgBlack},
	"CARDINAL":    {color.BgHiWhite, color.FgBlack},
}

var defaultColor = []color.Attribute{color.BgWhite, color.FgBlack}

// Renderer writes documents as single lines with highlighted entities:
// [John PERSON] visited [Paris GPE]
type Renderer struct {
	out     io.Writer
	noColor bool
	log     *slog.Logger
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out: out,
		log: slog.Default(),
	}
}

// SetOutput sets the writer documents are rendered to
func (r *Renderer) SetOutput(out io.Writer) {
	r.out = out
}

// SetColor enables or disables label colours
func (r *Renderer) SetColor(enabled bool) {
	r.noColor = !enabled
}

// SetLogger sets the logger used to report isolated failures
func (r *Renderer) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.log = logger
	}
}

// Render writes one document. The document is not modified.
func (r *Renderer) Render(doc *model.AnnotatedDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidSpan)
	}

	if len(doc.Entities) == 0 {
		if _, err := fmt.Fprintln(r.out, doc.Text); err != nil {
			return err
		}
		return ErrNoEntities
	}

	spans := make([]*model.EntitySpan, 0, len(doc.Entities))
	for _, span := range doc.Entities {
		if span == nil || !span.InBounds(len(doc.Text)) {
			return fmt.Errorf("%w: %v in %q", ErrInvalidSpan, describe(span), doc.Text)
		}
		spans = append(spans, span)
	}
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Start < spans[j].Start
	})

	var b strings.Builder
	cursor := 0
	for _, span := range spans {
		if span.Start < cursor {
			return fmt.Errorf("%w: %v in %q", ErrOverlappingSpans, describe(span), doc.Text)
		}
		b.WriteString(doc.Text[cursor:span.Start])
		b.WriteString(r.highlight(doc.Text[span.Start:span.End], span.Label))
		cursor = span.End
	}
	b.WriteString(doc.Text[cursor:])

	_, err := fmt.Fprintln(r.out, b.String())
	return err
}

// RenderAll renders every document on its own. A failing document does not
// stop the others; all failures are joined into the returned error.
// A document without entities is written as plain text and counts as rendered.
// It returns the number of documents rendered without failure.
func (r *Renderer) RenderAll(docs []*model.AnnotatedDocument) (int, error) {
	rendered := 0
	var errs []error
	for i, doc := range docs {
		err := r.Render(doc)
		if errors.Is(err, ErrNoEntities) {
			r.log.Debug("Document has no entities", slog.Int("position", i))
			rendered++
			continue
		}
		if err != nil {
			r.log.Warn("Failed to render document", slog.Int("position", i), slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("document %d: %w", i, err))
			continue
		}
		rendered++
	}
	return rendered, errors.Join(errs...)
}

func (r *Renderer) highlight(text string, label string) string {
	content := "[" + text + " " + label + "]"
	if r.noColor {
		return content
	}

	attributes, ok := labelColors[label]
	if !ok {
		attributes = defaultColor
	}
	c := color.New(attributes...)
	c.EnableColor()
	return c.Sprint(content)
}

func describe(span *model.EntitySpan) string {
	if span == nil {
		return "<nil span>"
	}
	return fmt.Sprintf("%q %s [%d:%d]", span.Text, span.Label, span.Start, span.End)
}

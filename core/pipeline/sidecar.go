package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/siherrmann/headliner/model"
)

// SidecarAnnotator calls an external NER server, for example a spaCy process,
// over HTTP. It is safe for concurrent use.
type SidecarAnnotator struct {
	url  string
	http *http.Client
}

// NewSidecarAnnotator creates a SidecarAnnotator for the given base URL
// (e.g. "http://localhost:8001"). Requests go to <baseURL>/annotate.
func NewSidecarAnnotator(baseURL string) *SidecarAnnotator {
	return &SidecarAnnotator{
		url: strings.TrimRight(baseURL, "/") + "/annotate",
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type annotateRequest struct {
	Text string `json:"text"`
}

type annotateResponse struct {
	Text string        `json:"text"`
	Ents []sidecarSpan `json:"ents"`
}

// sidecarSpan offsets are character (rune) offsets
type sidecarSpan struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Label string  `json:"label"`
	Text  string  `json:"text"`
	Score float64 `json:"score,omitempty"`
}

// Annotate implements AnnotateFunc. The request is bound to ctx.
func (c *SidecarAnnotator) Annotate(ctx context.Context, text string) (*model.AnnotatedDocument, error) {
	body, err := json.Marshal(annotateRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("sidecar: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sidecar: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sidecar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sidecar: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("sidecar: decode: %w", err)
	}

	offsets := byteOffsets(text)
	spans := make([]*model.EntitySpan, 0, len(result.Ents))
	for _, e := range result.Ents {
		if e.Start < 0 || e.End < e.Start || e.End >= len(offsets) {
			return nil, fmt.Errorf("sidecar: span %q [%d:%d] outside text", e.Text, e.Start, e.End)
		}
		span := &model.EntitySpan{
			Text:  e.Text,
			Label: e.Label,
			Start: offsets[e.Start],
			End:   offsets[e.End],
		}
		if span.Text == "" {
			span.Text = text[span.Start:span.End]
		}
		if e.Score > 0 {
			span.Metadata = model.Metadata{model.MetadataKeyScore: e.Score}
		}
		spans = append(spans, span)
	}

	return model.NewAnnotatedDocument(text, spans), nil
}

// byteOffsets maps every rune offset of text, plus the end, to its byte offset
func byteOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}

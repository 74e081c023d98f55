package model

import (
	"time"

	"github.com/google/uuid"
)

// EntitySpan is a named entity predicted inside an annotated document.
// Start and End are byte offsets into the parent document's Text (End exclusive).
type EntitySpan struct {
	ID          int64     `json:"id"`
	DocumentID  int64     `json:"document_id"`
	DocumentRID uuid.UUID `json:"document_rid"`
	Text        string    `json:"text"`
	Label       string    `json:"label"`
	Start       int       `json:"start"`
	End         int       `json:"end"`
	Metadata    Metadata  `json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// String returns the surface text of the span
func (s *EntitySpan) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.Text
}

// InBounds reports whether the span offsets lie inside a text of the given length
func (s *EntitySpan) InBounds(textLen int) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= textLen
}

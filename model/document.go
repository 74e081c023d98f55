package model

import (
	"time"

	"github.com/google/uuid"
)

// AnnotatedDocument is a headline together with the entities a model predicted for it
type AnnotatedDocument struct {
	ID          int64         `json:"id"`
	RID         uuid.UUID     `json:"rid"`
	RunRID      uuid.UUID     `json:"run_rid"`
	SampleIndex int           `json:"sample_index"`
	Text        string        `json:"text"`
	Entities    []*EntitySpan `json:"entities"`
	Metadata    Metadata      `json:"metadata,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// NewAnnotatedDocument creates a document with a fresh RID and
// points every span back at it
func NewAnnotatedDocument(text string, entities []*EntitySpan) *AnnotatedDocument {
	doc := &AnnotatedDocument{
		RID:      uuid.New(),
		Text:     text,
		Entities: entities,
	}
	doc.LinkEntities()
	return doc
}

// LinkEntities sets the document reference of every span to this document
func (d *AnnotatedDocument) LinkEntities() {
	for _, entity := range d.Entities {
		if entity == nil {
			continue
		}
		entity.DocumentID = d.ID
		entity.DocumentRID = d.RID
	}
}

// Labels returns the distinct labels of the document's spans in first-seen order
func (d *AnnotatedDocument) Labels() []string {
	seen := map[string]bool{}
	labels := []string{}
	for _, entity := range d.Entities {
		if entity == nil || seen[entity.Label] {
			continue
		}
		seen[entity.Label] = true
		labels = append(labels, entity.Label)
	}
	return labels
}

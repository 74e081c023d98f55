package model

import "github.com/google/uuid"

// Report is the outcome of one run over a corpus
type Report struct {
	RunRID         uuid.UUID            `json:"run_rid"`
	HeadlineCount  int                  `json:"headline_count"`
	Documents      []*AnnotatedDocument `json:"documents"`
	Visualized     []*AnnotatedDocument `json:"visualized"`
	Index          *EntityTypeIndex     `json:"index"`
	RenderFailures int                  `json:"render_failures"`
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/headliner/helper"
	"github.com/siherrmann/headliner/model"
	"github.com/siherrmann/headliner/sql"
)

// SpansDBHandlerFunctions defines the interface for entity span database operations.
type SpansDBHandlerFunctions interface {
	InsertSpan(span *model.EntitySpan) error
	SelectSpansByDocument(documentID int64) ([]*model.EntitySpan, error)
	SelectSpansByRunAndLabel(runRID uuid.UUID, label string) ([]*model.EntitySpan, error)
	DeleteSpan(id int64) error
}

// SpansDBHandler handles entity span database operations
type SpansDBHandler struct {
	db *helper.Database
}

// NewSpansDBHandler creates a new spans database handler.
// The documents table must exist, spans reference it.
// If force is true, it will reload the SQL functions even if they already exist.
func NewSpansDBHandler(db *helper.Database, force bool) (*SpansDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	spansDbHandler := &SpansDBHandler{
		db: db,
	}

	err := sql.LoadSpansSql(spansDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load spans sql", err)
	}

	err = spansDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized SpansDBHandler")

	return spansDbHandler, nil
}

// CreateTable creates the 'entity_spans' table and its indexes if missing
func (h *SpansDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_spans();`)
	if err != nil {
		return helper.NewError("init spans", err)
	}

	h.db.Logger.Info("Checked/created table entity_spans")

	return nil
}

// InsertSpan inserts a span of an already stored document
func (h *SpansDBHandler) InsertSpan(span *model.EntitySpan) error {
	if span.DocumentID == 0 {
		return helper.NewError("insert span", fmt.Errorf("span %q has no stored document", span.Text))
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_span($1, $2, $3, $4, $5, $6, $7)`,
		span.DocumentID,
		span.DocumentRID,
		span.Text,
		span.Label,
		span.Start,
		span.End,
		span.Metadata,
	)

	err := scanSpan(row, span)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectSpansByDocument retrieves the spans of a document in insertion order
func (h *SpansDBHandler) SelectSpansByDocument(documentID int64) ([]*model.EntitySpan, error) {
	return h.selectSpans(`SELECT * FROM select_spans_by_document($1)`, documentID)
}

// SelectSpansByRunAndLabel retrieves the spans of a run with the given label,
// in document order, then span order
func (h *SpansDBHandler) SelectSpansByRunAndLabel(runRID uuid.UUID, label string) ([]*model.EntitySpan, error) {
	return h.selectSpans(`SELECT * FROM select_spans_by_run_and_label($1, $2)`, runRID, label)
}

// DeleteSpan deletes a span by ID
func (h *SpansDBHandler) DeleteSpan(id int64) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_span($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

func (h *SpansDBHandler) selectSpans(query string, args ...interface{}) ([]*model.EntitySpan, error) {
	rows, err := h.db.Instance.Query(query, args...)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	spans := []*model.EntitySpan{}
	for rows.Next() {
		span := &model.EntitySpan{}
		err := scanSpan(rows, span)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		spans = append(spans, span)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return spans, nil
}

func scanSpan(row scanner, span *model.EntitySpan) error {
	return row.Scan(
		&span.ID,
		&span.DocumentID,
		&span.DocumentRID,
		&span.Text,
		&span.Label,
		&span.Start,
		&span.End,
		&span.Metadata,
		&span.CreatedAt,
	)
}

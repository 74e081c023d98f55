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

// DocumentsDBHandlerFunctions defines the interface for annotated document database operations.
type DocumentsDBHandlerFunctions interface {
	InsertDocument(doc *model.AnnotatedDocument) error
	SelectDocument(rid uuid.UUID) (*model.AnnotatedDocument, error)
	SelectDocumentsByRun(runRID uuid.UUID) ([]*model.AnnotatedDocument, error)
	DeleteDocument(rid uuid.UUID) error
}

// DocumentsDBHandler handles annotated document database operations
type DocumentsDBHandler struct {
	db *helper.Database
}

// NewDocumentsDBHandler creates a new documents database handler.
// It loads the document SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewDocumentsDBHandler(db *helper.Database, force bool) (*DocumentsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	documentsDbHandler := &DocumentsDBHandler{
		db: db,
	}

	err := sql.LoadDocumentsSql(documentsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load documents sql", err)
	}

	err = documentsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized DocumentsDBHandler")

	return documentsDbHandler, nil
}

// CreateTable creates the 'annotated_documents' table and its indexes if missing
func (h *DocumentsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_documents();`)
	if err != nil {
		return helper.NewError("init documents", err)
	}

	h.db.Logger.Info("Checked/created table annotated_documents")

	return nil
}

// InsertDocument inserts the document row. Spans are stored by SpansDBHandler.
// ID, RID and CreatedAt are set from the stored row.
func (h *DocumentsDBHandler) InsertDocument(doc *model.AnnotatedDocument) error {
	var rid *uuid.UUID
	if doc.RID != uuid.Nil {
		rid = &doc.RID
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_document($1, $2, $3, $4, $5)`,
		rid,
		doc.RunRID,
		doc.SampleIndex,
		doc.Text,
		doc.Metadata,
	)

	err := scanDocument(row, doc)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectDocument retrieves a document by RID, without its spans
func (h *DocumentsDBHandler) SelectDocument(rid uuid.UUID) (*model.AnnotatedDocument, error) {
	doc := &model.AnnotatedDocument{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_document($1)`,
		rid,
	)

	err := scanDocument(row, doc)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return doc, nil
}

// SelectDocumentsByRun retrieves the documents of a run in sample order, without their spans
func (h *DocumentsDBHandler) SelectDocumentsByRun(runRID uuid.UUID) ([]*model.AnnotatedDocument, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_documents_by_run($1)`,
		runRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var docs []*model.AnnotatedDocument
	for rows.Next() {
		doc := &model.AnnotatedDocument{}
		err := scanDocument(rows, doc)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		docs = append(docs, doc)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return docs, nil
}

// DeleteDocument deletes a document and, by cascade, its spans
func (h *DocumentsDBHandler) DeleteDocument(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_document($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row scanner, doc *model.AnnotatedDocument) error {
	return row.Scan(
		&doc.ID,
		&doc.RID,
		&doc.RunRID,
		&doc.SampleIndex,
		&doc.Text,
		&doc.Metadata,
		&doc.CreatedAt,
	)
}

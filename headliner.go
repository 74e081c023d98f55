package headliner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/siherrmann/headliner/core/aggregate"
	"github.com/siherrmann/headliner/core/corpus"
	"github.com/siherrmann/headliner/core/pipeline"
	"github.com/siherrmann/headliner/core/sampling"
	"github.com/siherrmann/headliner/core/visualize"
	"github.com/siherrmann/headliner/database"
	"github.com/siherrmann/headliner/helper"
	"github.com/siherrmann/headliner/model"
	loadSql "github.com/siherrmann/headliner/sql"
)

// Headliner runs the headline analysis: load, sample, annotate, render and aggregate
type Headliner struct {
	DB        *helper.Database
	Documents *database.DocumentsDBHandler // Optional result store
	Spans     *database.SpansDBHandler     // Optional result store
	Annotator *pipeline.Annotator
	Renderer  *visualize.Renderer
	// Model resources released by Close
	closer io.Closer
	// Logging
	log *slog.Logger
}

// NewHeadliner creates a Headliner around the given model capability.
// Logs go to stderr, highlighted documents to stdout.
func NewHeadliner(annotate pipeline.AnnotateFunc) *Headliner {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stderr, opts))

	annotator := pipeline.NewAnnotator(annotate)
	annotator.SetLogger(logger)

	renderer := visualize.NewRenderer(os.Stdout)
	renderer.SetLogger(logger)

	return &Headliner{
		Annotator: annotator,
		Renderer:  renderer,
		log:       logger,
	}
}

// UseDefaultAnnotator sets up the local hugot NER model.
// The model is downloaded to ./models on first use.
func (h *Headliner) UseDefaultAnnotator(modelName string, onnxFile string) error {
	hugotAnnotator, err := pipeline.NewHugotAnnotator(modelName, onnxFile)
	if err != nil {
		return helper.NewError("create default annotator", err)
	}

	h.releaseModel()
	h.closer = hugotAnnotator
	h.Annotator.SetAnnotate(hugotAnnotator.Annotate)
	h.log.Info("Using hugot annotator", slog.String("model", modelName))
	return nil
}

// UseSidecarAnnotator sets up an external NER server as model
func (h *Headliner) UseSidecarAnnotator(url string) {
	sidecar := pipeline.NewSidecarAnnotator(url)

	h.releaseModel()
	h.Annotator.SetAnnotate(sidecar.Annotate)
	h.log.Info("Using sidecar annotator", slog.String("url", url))
}

// SetOutput sets the writer highlighted documents are rendered to
func (h *Headliner) SetOutput(w io.Writer) {
	h.Renderer.SetOutput(w)
}

// SetProgress sets the observer of annotation progress
func (h *Headliner) SetProgress(progress pipeline.ProgressFunc) {
	h.Annotator.SetProgress(progress)
}

// SetLogger replaces the logger of the Headliner and its components
func (h *Headliner) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	h.log = logger
	h.Annotator.SetLogger(logger)
	h.Renderer.SetLogger(logger)
}

// UseStore connects the result store and creates its tables if missing
func (h *Headliner) UseStore(config *helper.DatabaseConfiguration) error {
	db, err := helper.NewDatabase("headliner", config, h.log)
	if err != nil {
		return helper.NewError("connect database", err)
	}

	err = loadSql.Init(db.Instance)
	if err != nil {
		db.Close()
		return helper.NewError("initialize database extensions", err)
	}

	// Documents first, spans reference them
	// force=false to not reload if functions already exist
	documents, err := database.NewDocumentsDBHandler(db, false)
	if err != nil {
		db.Close()
		return helper.NewError("create documents handler", err)
	}

	spans, err := database.NewSpansDBHandler(db, false)
	if err != nil {
		db.Close()
		return helper.NewError("create spans handler", err)
	}

	h.DB = db
	h.Documents = documents
	h.Spans = spans
	return nil
}

// Close releases the model and closes the database connection
func (h *Headliner) Close() error {
	h.releaseModel()
	if h.DB != nil {
		return h.DB.Close()
	}
	return nil
}

// Run executes one analysis over the corpus named by config.
// Sampling preconditions are checked before anything is rendered,
// a document that fails to render is logged and skipped.
func (h *Headliner) Run(ctx context.Context, config *model.RunConfig) (*model.Report, error) {
	if config == nil {
		return nil, helper.NewError("run", fmt.Errorf("%w: config is nil", model.ErrInvalidConfig))
	}
	err := config.Validate()
	if err != nil {
		return nil, helper.NewError("validate config", err)
	}
	if config.Persist && h.Documents == nil {
		return nil, helper.NewError("validate config", fmt.Errorf("persist is set but no store is configured, use UseStore() first"))
	}

	headlines, err := corpus.LoadHeadlines(config.CorpusPath, config.DelimiterRune())
	if err != nil {
		return nil, helper.NewError("load headlines", err)
	}
	h.log.Info("Loaded corpus", slog.String("path", config.CorpusPath), slog.Int("headlines", len(headlines)))

	sampler := sampling.NewSampler(config.Seed)
	sample, err := sampler.AnnotationSample(headlines, config.Fraction)
	if err != nil {
		return nil, helper.NewError("annotation sample", err)
	}
	h.log.Info("Sampled headlines", slog.Int("sample_size", len(sample)), slog.Float64("fraction", config.Fraction))

	docs, err := h.Annotator.Annotate(ctx, sample)
	if err != nil {
		return nil, helper.NewError("annotate", err)
	}

	runRID := uuid.New()
	for _, doc := range docs {
		doc.RunRID = runRID
	}

	visualized, err := sampling.Sample(sampler, docs, config.VisualizeCount)
	if err != nil {
		return nil, helper.NewError("visualization sample", err)
	}

	rendered, err := h.Renderer.RenderAll(visualized)
	failures := len(visualized) - rendered
	if err != nil {
		h.log.Warn("Some documents could not be rendered", slog.Int("failures", failures))
	}

	index := aggregate.BuildIndex(docs, config.Labels)
	h.log.Info("Aggregated entities",
		slog.Int("recognized", aggregate.CountRecognized(docs, config.Labels)),
		slog.String("run_rid", runRID.String()),
	)

	if config.Persist {
		err = h.persist(docs)
		if err != nil {
			return nil, helper.NewError("persist run", err)
		}
	}

	return &model.Report{
		RunRID:         runRID,
		HeadlineCount:  len(headlines),
		Documents:      docs,
		Visualized:     visualized,
		Index:          index,
		RenderFailures: failures,
	}, nil
}

// LoadIndex rebuilds the entity type index of a stored run.
// Buckets have the same order as the index built during the run.
func (h *Headliner) LoadIndex(runRID uuid.UUID, labels []string) (*model.EntityTypeIndex, error) {
	if h.Spans == nil {
		return nil, helper.NewError("load index", fmt.Errorf("store not set, use UseStore() first"))
	}

	index := model.NewEntityTypeIndex(labels)
	for _, label := range index.Labels {
		spans, err := h.Spans.SelectSpansByRunAndLabel(runRID, label)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("select spans of %s", label), err)
		}
		index.Buckets[label] = spans
	}

	return index, nil
}

// persist stores documents first, then their spans with the assigned document ID
func (h *Headliner) persist(docs []*model.AnnotatedDocument) error {
	spanCount := 0
	for i, doc := range docs {
		err := h.Documents.InsertDocument(doc)
		if err != nil {
			return helper.NewError(fmt.Sprintf("insert document %d", i), err)
		}

		doc.LinkEntities()
		for j, span := range doc.Entities {
			if span == nil {
				continue
			}
			err := h.Spans.InsertSpan(span)
			if err != nil {
				return helper.NewError(fmt.Sprintf("insert span %d of document %d", j, i), err)
			}
			spanCount++
		}
	}

	h.log.Info("Persisted run", slog.Int("documents", len(docs)), slog.Int("spans", spanCount))
	return nil
}

func (h *Headliner) releaseModel() {
	if h.closer == nil {
		return
	}
	if err := h.closer.Close(); err != nil {
		h.log.Warn("Failed to release model", slog.String("error", err.Error()))
	}
	h.closer = nil
}

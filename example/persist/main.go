package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/siherrmann/headliner"
	"github.com/siherrmann/headliner/helper"
	"github.com/siherrmann/headliner/model"
)

const sampleCorpus = `publish_date,headline_text
20030219,aba decides against community broadcasting licence
20030219,act fire witnesses must be aware of defamation
20030219,john howard visits sydney after storm
20030220,paris talks stall as france rejects deal
20030220,brisbane floods force evacuations
20030220,melbourne cup crowd record
20030221,un inspectors return to baghdad
20030221,canberra bushfire inquiry begins`

// gazetteer is a tiny lookup model, enough to show the store without a download
var gazetteer = map[string]string{
	"john":      "PERSON",
	"howard":    "PERSON",
	"sydney":    "GPE",
	"paris":     "GPE",
	"france":    "GPE",
	"brisbane":  "GPE",
	"melbourne": "GPE",
	"baghdad":   "GPE",
	"canberra":  "GPE",
	"un":        "ORG",
	"aba":       "ORG",
}

func annotate(_ context.Context, text string) (*model.AnnotatedDocument, error) {
	spans := []*model.EntitySpan{}
	offset := 0
	for _, word := range strings.Fields(text) {
		start := strings.Index(text[offset:], word) + offset
		end := start + len(word)
		offset = end
		if label, ok := gazetteer[word]; ok {
			spans = append(spans, &model.EntitySpan{Text: word, Label: label, Start: start, End: end})
		}
	}
	return model.NewAnnotatedDocument(text, spans), nil
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	corpusPath := filepath.Join(os.TempDir(), "headliner-persist-example.csv")
	if err := os.WriteFile(corpusPath, []byte(sampleCorpus), 0o644); err != nil {
		log.Fatalf("Failed to write corpus: %v", err)
	}
	defer os.Remove(corpusPath)

	h := headliner.NewHeadliner(annotate)
	defer h.Close()

	if err := h.UseStore(dbConfig); err != nil {
		log.Fatalf("Failed to set up store: %v", err)
	}

	seed := uint64(2003)
	config := model.DefaultRunConfig()
	config.CorpusPath = corpusPath
	config.Fraction = 1.0
	config.VisualizeCount = 4
	config.ReportLabel = "GPE"
	config.Seed = &seed
	config.Persist = true

	fmt.Println("Running analysis...")
	report, err := h.Run(context.Background(), &config)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}
	fmt.Printf("Stored run %s with %d documents\n", report.RunRID, len(report.Documents))

	// Rebuild the index from the database
	index, err := h.LoadIndex(report.RunRID, config.Labels)
	if err != nil {
		log.Fatalf("Failed to load index: %v", err)
	}

	fmt.Println("\nIndex loaded from the store:")
	for _, label := range index.Labels {
		if texts := index.Texts(label); len(texts) > 0 {
			fmt.Printf("  %-8s %v\n", label, texts)
		}
	}

	docs, err := h.Documents.SelectDocumentsByRun(report.RunRID)
	if err != nil {
		log.Fatalf("Failed to select documents: %v", err)
	}
	if len(docs) > 0 {
		spans, err := h.Spans.SelectSpansByDocument(docs[0].ID)
		if err != nil {
			log.Fatalf("Failed to select spans: %v", err)
		}
		fmt.Printf("\nFirst sampled headline: %q\n", docs[0].Text)
		for _, span := range spans {
			fmt.Printf("  %-8s %s [%d:%d]\n", span.Label, span.Text, span.Start, span.End)
		}
	}
}

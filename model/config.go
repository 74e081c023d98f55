package model

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by RunConfig.Validate
var ErrInvalidConfig = errors.New("invalid run configuration")

// DefaultModel is the hugot token classification model used when none is configured
const DefaultModel = "KnightsAnalytics/distilbert-NER"

// DefaultLabels is the OntoNotes label set predicted by common English NER models
var DefaultLabels = []string{
	"PERSON",
	"NORP",
	"FAC",
	"ORG",
	"GPE",
	"LOC",
	"PRODUCT",
	"EVENT",
	"WORK_OF_ART",
	"LAW",
	"LANGUAGE",
	"DATE",
	"TIME",
	"PERCENT",
	"MONEY",
	"QUANTITY",
	"ORDINAL",
	"CARDINAL",
}

// RunConfig represents the configuration of one run over a headline corpus
type RunConfig struct {
	// Corpus
	CorpusPath string `yaml:"corpus_path" json:"corpus_path"`
	Delimiter  string `yaml:"delimiter" json:"delimiter"`

	// Sampling
	Fraction       float64 `yaml:"fraction" json:"fraction"`               // Share of the corpus to annotate, in (0, 1]
	VisualizeCount int     `yaml:"visualize_count" json:"visualize_count"` // Annotated documents to render
	Seed           *uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`   // nil draws a random seed

	// Aggregation
	Labels      []string `yaml:"labels" json:"labels"`
	ReportLabel string   `yaml:"report_label" json:"report_label"`

	// Model
	Model      string `yaml:"model" json:"model"`
	OnnxFile   string `yaml:"onnx_file" json:"onnx_file"`
	SidecarURL string `yaml:"sidecar_url,omitempty" json:"sidecar_url,omitempty"` // Takes precedence over Model

	// Store
	Persist bool `yaml:"persist" json:"persist"`
}

// DefaultRunConfig returns the configuration used by the abcnews example
func DefaultRunConfig() RunConfig {
	labels := make([]string, len(DefaultLabels))
	copy(labels, DefaultLabels)

	return RunConfig{
		CorpusPath:     "abcnews-date-text.csv",
		Delimiter:      ",",
		Fraction:       0.01,
		VisualizeCount: 100,
		Labels:         labels,
		ReportLabel:    "LOC",
		Model:          DefaultModel,
		OnnxFile:       "model.onnx",
	}
}

// LoadRunConfig reads a YAML file on top of DefaultRunConfig.
// Keys missing from the file keep their default, unknown keys are an error.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultRunConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &config, nil
}

// DelimiterRune returns the configured delimiter, ',' if unset
func (c *RunConfig) DelimiterRune() rune {
	if c.Delimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Validate checks the configuration before a run
func (c *RunConfig) Validate() error {
	if c.CorpusPath == "" {
		return fmt.Errorf("%w: corpus path is empty", ErrInvalidConfig)
	}
	if c.Delimiter != "" && utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("%w: delimiter %q must be a single character", ErrInvalidConfig, c.Delimiter)
	}
	if c.Fraction <= 0 || c.Fraction > 1 {
		return fmt.Errorf("%w: fraction %v must be in (0, 1]", ErrInvalidConfig, c.Fraction)
	}
	if c.VisualizeCount < 1 {
		return fmt.Errorf("%w: visualize count %d must be positive", ErrInvalidConfig, c.VisualizeCount)
	}
	if len(c.Labels) == 0 {
		return fmt.Errorf("%w: label set is empty", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Labels))
	for _, label := range c.Labels {
		if label == "" {
			return fmt.Errorf("%w: empty label", ErrInvalidConfig)
		}
		if seen[label] {
			return fmt.Errorf("%w: duplicate label %q", ErrInvalidConfig, label)
		}
		seen[label] = true
	}

	if c.ReportLabel != "" && !seen[c.ReportLabel] {
		return fmt.Errorf("%w: report label %q is not in the label set", ErrInvalidConfig, c.ReportLabel)
	}

	return nil
}

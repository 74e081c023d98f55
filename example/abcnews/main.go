package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/siherrmann/headliner"
	"github.com/siherrmann/headliner/core/pipeline"
	"github.com/siherrmann/headliner/helper"
	"github.com/siherrmann/headliner/model"
)

func main() {
	configPath := flag.String("config", "", "YAML run configuration, flags override its values")
	corpusPath := flag.String("corpus", "", "headline CSV file")
	delimiter := flag.String("delimiter", "", "CSV delimiter")
	fraction := flag.Float64("fraction", 0, "share of the corpus to annotate")
	visualize := flag.Int("visualize", 0, "number of annotated headlines to render")
	seed := flag.Uint64("seed", 0, "random seed, random if unset")
	labels := flag.String("labels", "", "comma separated entity labels to aggregate")
	reportLabel := flag.String("report", "", "label whose entities are printed")
	modelName := flag.String("model", "", "hugot token classification model")
	sidecarURL := flag.String("sidecar", "", "NER server base URL, replaces the local model")
	persist := flag.Bool("persist", false, "store the run in PostgreSQL (DB_* environment or .env)")
	noColor := flag.Bool("no-color", false, "disable label colours")
	flag.Parse()

	config := model.DefaultRunConfig()
	if *configPath != "" {
		loaded, err := model.LoadRunConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		config = *loaded
	}

	// Only flags given on the command line override the configuration
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "corpus":
			config.CorpusPath = *corpusPath
		case "delimiter":
			config.Delimiter = *delimiter
		case "fraction":
			config.Fraction = *fraction
		case "visualize":
			config.VisualizeCount = *visualize
		case "seed":
			config.Seed = seed
		case "labels":
			config.Labels = strings.Split(*labels, ",")
		case "report":
			config.ReportLabel = *reportLabel
		case "model":
			config.Model = *modelName
		case "sidecar":
			config.SidecarURL = *sidecarURL
		case "persist":
			config.Persist = *persist
		}
	})

	h := headliner.NewHeadliner(nil)
	defer h.Close()

	if config.SidecarURL != "" {
		h.UseSidecarAnnotator(config.SidecarURL)
	} else if err := h.UseDefaultAnnotator(config.Model, config.OnnxFile); err != nil {
		log.Fatalf("Failed to set up annotator: %v", err)
	}
	h.SetProgress(pipeline.NewProgressBar(os.Stderr, "Annotating headlines"))
	h.Renderer.SetColor(!*noColor)

	if config.Persist {
		dbConfig, err := helper.NewDatabaseConfiguration()
		if err != nil {
			log.Fatalf("Failed to read database configuration: %v", err)
		}
		if err := h.UseStore(dbConfig); err != nil {
			log.Fatalf("Failed to set up store: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := h.Run(ctx, &config)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	fmt.Println()
	fmt.Printf("Annotated %d of %d headlines, rendered %d (%d without highlights)\n",
		len(report.Documents), report.HeadlineCount, len(report.Visualized), report.RenderFailures)
	for _, label := range report.Index.Labels {
		if count := len(report.Index.Get(label)); count > 0 {
			fmt.Printf("  %-12s %d\n", label, count)
		}
	}

	if config.ReportLabel != "" {
		fmt.Printf("\nPredicted Named Entities of type %s : %v\n", config.ReportLabel, report.Index.Texts(config.ReportLabel))
	}
	if config.Persist {
		fmt.Printf("\nStored run %s\n", report.RunRID)
	}
}

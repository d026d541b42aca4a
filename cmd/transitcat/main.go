// Command transitcat is a two-phase batch CLI: make_base builds a
// catalogue and router from a JSON document and persists them; process_requests
// restores that persisted state and answers a batch of stat_requests.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/samirrijal/transitcat/internal/adapters/codec"
	"github.com/samirrijal/transitcat/internal/adapters/requests"
	"github.com/samirrijal/transitcat/internal/core/catalogue"
	"github.com/samirrijal/transitcat/internal/core/domain"
	"github.com/samirrijal/transitcat/internal/core/render"
	"github.com/samirrijal/transitcat/internal/core/router"
	"github.com/samirrijal/transitcat/internal/pkg/config"
	"github.com/samirrijal/transitcat/internal/pkg/logging"
	"github.com/samirrijal/transitcat/internal/pkg/metrics"
)

func main() {
	if len(os.Args) != 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	mode := os.Args[1]
	var runErr error
	switch mode {
	case "make_base":
		runErr = runMakeBase(cfg)
	case "process_requests":
		runErr = runProcessRequests(cfg)
	default:
		printUsage()
		os.Exit(1)
	}

	if runErr != nil {
		slog.Error("phase failed", "mode", mode, "error", runErr)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: transitcat [make_base|process_requests]")
}

// runMakeBase reads the configured make_base document, builds a catalogue
// (and, if routing_settings is present, a preprocessed router), and
// serializes everything to the document's serialization_settings.file.
func runMakeBase(cfg *config.Config) error {
	m := metrics.New()

	data, err := os.ReadFile(cfg.Defaults.MakeBaseFile)
	if err != nil {
		return domain.IOError("reading "+cfg.Defaults.MakeBaseFile, err)
	}
	doc, err := requests.Parse(data)
	if err != nil {
		return err
	}

	cat := catalogue.New()
	if err := doc.LoadInto(cat); err != nil {
		return err
	}
	m.StopsIngested.Add(float64(cat.StopCount()))
	m.RoutesIngested.Add(float64(len(cat.Routes())))
	m.DistancesIngested.Add(float64(len(cat.Distances())))

	var renderSettings *render.Settings
	if rs, ok := doc.RenderSettings(); ok {
		renderSettings = &rs
	}

	var rtr *router.Router
	if routingSettings, ok := doc.RoutingSettings(); ok {
		rtr = router.New(cat, routingSettings)
		start := time.Now()
		rtr.InitRouter()
		m.PreprocessDuration.Observe(time.Since(start).Seconds())
	}

	path, ok := doc.SerializationPath()
	if !ok {
		return domain.SchemaError("make_base document is missing serialization_settings.file", nil)
	}

	start := time.Now()
	if err := codec.Serialize(cat, renderSettings, rtr, path); err != nil {
		return err
	}
	m.SerializeDuration.Observe(time.Since(start).Seconds())

	if err := m.Flush(path + ".metrics.prom"); err != nil {
		slog.Warn("metrics flush failed", "error", err)
	}

	slog.Info("make_base complete", "stops", cat.StopCount(), "routes", len(cat.Routes()), "serialized_to", path)
	return nil
}

// runProcessRequests restores a previously serialized catalogue, answers the
// configured document's stat_requests against it, and writes the answers to
// the result file.
func runProcessRequests(cfg *config.Config) error {
	m := metrics.New()

	data, err := os.ReadFile(cfg.Defaults.ProcessRequestsFile)
	if err != nil {
		return domain.IOError("reading "+cfg.Defaults.ProcessRequestsFile, err)
	}
	doc, err := requests.Parse(data)
	if err != nil {
		return err
	}

	path, ok := doc.SerializationPath()
	if !ok {
		return domain.SchemaError("process_requests document is missing serialization_settings.file", nil)
	}

	start := time.Now()
	restored, err := codec.Deserialize(path)
	if err != nil {
		return err
	}
	m.DeserializeDuration.Observe(time.Since(start).Seconds())

	var renderSettings render.Settings
	if restored.RenderSettings != nil {
		renderSettings = *restored.RenderSettings
	}

	answers, err := requests.AnswerRequests(doc, restored.Catalogue, renderSettings, restored.Router)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return domain.LogicError(fmt.Sprintf("encoding result document: %v", err))
	}
	if err := os.WriteFile(cfg.Defaults.ResultFile, out, 0o644); err != nil {
		return domain.IOError("writing "+cfg.Defaults.ResultFile, err)
	}

	if err := m.Flush(cfg.Defaults.ResultFile + ".metrics.prom"); err != nil {
		slog.Warn("metrics flush failed", "error", err)
	}

	slog.Info("process_requests complete", "answers", len(answers), "result_file", cfg.Defaults.ResultFile)
	return nil
}

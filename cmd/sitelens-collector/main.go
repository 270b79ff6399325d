// Command sitelens-collector captures live websites, runs the design
// analysis pipeline on them, and stores the results. Two modes: a
// single URL, or "top N websites in an industry" discovered by the text
// model and processed as a batch.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/sitelens/sitelens/capture"
	"github.com/sitelens/sitelens/catalog"
	"github.com/sitelens/sitelens/ingest"
	"github.com/sitelens/sitelens/vision"
)

type fileConfig struct {
	Model        string `yaml:"model"`
	BaseURL      string `yaml:"base_url"`
	DBPath       string `yaml:"db_path"`
	MediaDir     string `yaml:"media_dir"`
	MediaBaseURL string `yaml:"media_base_url"`
	OutputDir    string `yaml:"output_dir"`
	DelaySeconds int    `yaml:"delay_seconds"`
}

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	setupLogging()

	// Missing credentials are fatal before any work happens.
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Error: OPENAI_API_KEY environment variable is not set")
		fmt.Fprintln(os.Stderr, "Please set it before running this tool:")
		fmt.Fprintln(os.Stderr, "  export OPENAI_API_KEY=your_api_key_here")
		os.Exit(1)
	}

	cfg := fileConfig{
		Model:        env("VISION_MODEL", ""),
		BaseURL:      env("VISION_BASE_URL", ""),
		DBPath:       env("DB_PATH", "db/sitelens.db"),
		MediaDir:     env("MEDIA_DIR", "media"),
		MediaBaseURL: env("MEDIA_BASE_URL", ""),
		OutputDir:    env("OUTPUT_DIR", "output"),
		DelaySeconds: 5,
	}
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			fatal("read config", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			fatal("parse config", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	analyzer, err := vision.New(vision.Config{
		APIKey:  apiKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		fatal("vision client", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		fatal("create db dir", err)
	}
	store, err := catalog.OpenStore(cfg.DBPath)
	if err != nil {
		fatal("open store", err)
	}
	defer store.Close()

	media, err := catalog.NewFileStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		fatal("open media store", err)
	}

	pipe, err := ingest.New(ingest.Config{
		Capturer: capture.New(capture.Config{}),
		Analyzer: analyzer,
		Uploader: media,
		Store:    store,
		Delay:    time.Duration(cfg.DelaySeconds) * time.Second,
	})
	if err != nil {
		fatal("pipeline", err)
	}

	fmt.Println("===== Website Design Collector =====")
	in := bufio.NewReader(os.Stdin)

	mode := prompt(in, "Choose mode:\n1. Analyze a single website\n2. Analyze an industry\nEnter choice (1 or 2): ")
	switch mode {
	case "1":
		runSingle(ctx, in, pipe, cfg.OutputDir)
	case "2":
		runIndustry(ctx, in, pipe, analyzer, store, cfg.OutputDir)
	default:
		fmt.Fprintln(os.Stderr, "Invalid choice. Please enter 1 or 2.")
		os.Exit(1)
	}
}

func runSingle(ctx context.Context, in *bufio.Reader, pipe *ingest.Pipeline, outputDir string) {
	url := prompt(in, "Enter website URL (include https://): ")
	meta := promptMetadata(in, url)

	fmt.Printf("Starting analysis for %s...\n", url)
	res, err := pipe.Process(ctx, ingest.Item{Input: capture.URLInput(url), Meta: meta})
	if err != nil {
		fatal("analysis", err)
	}

	fmt.Printf("\nAnalysis completed successfully!\nWebsite saved with ID: %s\n", res.ID)
	writeResults(outputDir, fmt.Sprintf("website_%s.json", res.ID), res)
}

func runIndustry(ctx context.Context, in *bufio.Reader, pipe *ingest.Pipeline, analyzer *vision.Client, store *catalog.Store, outputDir string) {
	industry := prompt(in, "Enter industry name: ")
	count, _ := strconv.Atoi(prompt(in, "Number of websites to analyze (default: 5): "))
	if count <= 0 {
		count = 5
	}

	fmt.Printf("Finding top %d websites in the %s industry...\n", count, industry)
	sites, err := analyzer.Discover(ctx, industry, count)
	if err != nil {
		fatal("discover websites", err)
	}
	fmt.Printf("Found %d websites for %s\n", len(sites), industry)

	descriptions := make(map[string]string, len(sites))
	items := make([]ingest.Item, 0, len(sites))
	for _, site := range sites {
		descriptions[site.URL] = site.Description
		items = append(items, ingest.Item{
			Input: capture.URLInput(site.URL),
			Meta:  catalog.Metadata{URL: site.URL},
		})
	}

	results := pipe.Run(ctx, items)

	// The discovery description is better than the generated default;
	// patch it in after the fact, as a best-effort touch-up.
	for i := range results {
		desc := descriptions[results[i].Example.URL]
		if desc == "" {
			continue
		}
		if err := store.Update(ctx, results[i].ID, catalog.Patch{Description: &desc}); err != nil {
			slog.Warn("description update failed", "id", results[i].ID, "error", err)
			continue
		}
		results[i].Example.Description = desc
	}

	fmt.Printf("\nAnalyzed %d/%d websites\n", len(results), len(sites))
	name := fmt.Sprintf("industry_%s_%d.json",
		strings.ReplaceAll(industry, " ", "_"), time.Now().UnixMilli())
	writeResults(outputDir, name, results)
}

func promptMetadata(in *bufio.Reader, url string) catalog.Metadata {
	title := prompt(in, "Enter title (or press Enter for default): ")
	description := prompt(in, "Enter description (or press Enter for default): ")
	categories := prompt(in, "Enter categories (comma-separated, or press Enter for default): ")
	tags := prompt(in, "Enter tags (comma-separated, or press Enter for default): ")
	return catalog.Metadata{
		Title:       title,
		Description: description,
		URL:         url,
		Category:    splitList(categories),
		Tags:        splitList(tags),
	}
}

func writeResults(dir, name string, v any) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fatal("create output dir", err)
	}
	path := filepath.Join(dir, name)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("encode results", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fatal("write results", err)
	}
	fmt.Printf("Full analysis saved to: %s\n", path)
}

func prompt(in *bufio.Reader, question string) string {
	fmt.Print(question)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func setupLogging() {
	var lvl slog.Level
	switch env("LOG_LEVEL", "info") {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", what, err)
	os.Exit(1)
}

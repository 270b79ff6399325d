// Command sitelens-shots runs the design analysis pipeline over
// already-captured screenshot files: a single image or a whole
// directory, with per-image metadata collected interactively.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sitelens/sitelens/capture"
	"github.com/sitelens/sitelens/catalog"
	"github.com/sitelens/sitelens/ingest"
	"github.com/sitelens/sitelens/vision"
)

func main() {
	setupLogging()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Error: OPENAI_API_KEY environment variable is not set")
		fmt.Fprintln(os.Stderr, "Please set it before running this tool:")
		fmt.Fprintln(os.Stderr, "  export OPENAI_API_KEY=your_api_key_here")
		os.Exit(1)
	}

	dbPath := env("DB_PATH", "db/sitelens.db")
	mediaDir := env("MEDIA_DIR", "media")
	mediaBaseURL := env("MEDIA_BASE_URL", "")
	outputDir := env("OUTPUT_DIR", "output")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	analyzer, err := vision.New(vision.Config{APIKey: apiKey, Model: env("VISION_MODEL", "")})
	if err != nil {
		fatal("vision client", err)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		fatal("create db dir", err)
	}
	store, err := catalog.OpenStore(dbPath)
	if err != nil {
		fatal("open store", err)
	}
	defer store.Close()

	media, err := catalog.NewFileStore(mediaDir, mediaBaseURL)
	if err != nil {
		fatal("open media store", err)
	}

	pipe, err := ingest.New(ingest.Config{
		Capturer: capture.New(capture.Config{}),
		Analyzer: analyzer,
		Uploader: media,
		Store:    store,
		Delay:    2 * time.Second,
	})
	if err != nil {
		fatal("pipeline", err)
	}

	fmt.Println("===== Screenshot Analyzer =====")
	in := bufio.NewReader(os.Stdin)

	mode := prompt(in, "Choose mode:\n1. Analyze a single screenshot\n2. Analyze a directory of screenshots\nEnter choice (1 or 2): ")
	switch mode {
	case "1":
		path := prompt(in, "Enter path to screenshot: ")
		item, err := loadItem(in, path)
		if err != nil {
			fatal("load screenshot", err)
		}
		res, err := pipe.Process(ctx, *item)
		if err != nil {
			fatal("analysis", err)
		}
		fmt.Printf("\nAnalysis completed successfully!\nWebsite saved with ID: %s\n", res.ID)
		writeResults(outputDir, fmt.Sprintf("screenshot_%s.json", res.ID), res)

	case "2":
		dir := prompt(in, "Enter path to directory containing screenshots: ")
		files, err := imageFiles(dir)
		if err != nil {
			fatal("scan directory", err)
		}
		if len(files) == 0 {
			fmt.Println("No images found in directory")
			return
		}
		fmt.Printf("Found %d images in directory\n", len(files))

		items := make([]ingest.Item, 0, len(files))
		for i, file := range files {
			fmt.Printf("\nImage %d/%d: %s\n", i+1, len(files), filepath.Base(file))
			item, err := loadItem(in, file)
			if err != nil {
				slog.Error("skipping unreadable image", "path", file, "error", err)
				continue
			}
			items = append(items, *item)
		}

		results := pipe.Run(ctx, items)
		fmt.Printf("\nAnalyzed %d/%d screenshots\n", len(results), len(items))
		name := fmt.Sprintf("screenshots_batch_%d.json", time.Now().UnixMilli())
		writeResults(outputDir, name, results)

	default:
		fmt.Fprintln(os.Stderr, "Invalid choice. Please enter 1 or 2.")
		os.Exit(1)
	}
}

// loadItem reads one image file and collects its metadata.
func loadItem(in *bufio.Reader, path string) (*ingest.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))

	title := prompt(in, fmt.Sprintf("Enter title for %s (or press Enter for default): ", filepath.Base(path)))
	if title == "" {
		title = stem(path)
	}
	description := prompt(in, "Enter description (or press Enter for default): ")
	url := prompt(in, "Enter URL (or press Enter to skip): ")
	categories := prompt(in, "Enter categories (comma-separated, or press Enter for default): ")
	tags := prompt(in, "Enter tags (comma-separated, or press Enter for default): ")

	return &ingest.Item{
		Input: capture.ImageInput(data, mimeType),
		Meta: catalog.Metadata{
			Title:       title,
			Description: description,
			URL:         url,
			Category:    splitList(categories),
			Tags:        splitList(tags),
			Type:        catalog.TypeScreen,
		},
	}, nil
}

func imageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
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

func stem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
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

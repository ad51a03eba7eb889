package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"quizzify/internal/app"
	"quizzify/internal/config"
	"quizzify/internal/domain"
	"quizzify/internal/logger"

	"go.uber.org/zap"
)

type quizOutput struct {
	Topic     string              `json:"topic"`
	Requested int                 `json:"requested"`
	Generated int                 `json:"generated"`
	Shortfall int                 `json:"shortfall"`
	Questions []domain.Question   `json:"questions"`
	Slots     []domain.SlotReport `json:"slots"`
	Error     string              `json:"error,omitempty"`
}

func main() {
	topic := flag.String("topic", config.DefaultTopic, "quiz topic")
	numQuestions := flag.Int("n", 1, "number of questions (1-10)")
	outPath := flag.String("out", "", "write the quiz JSON here instead of stdout")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] document.pdf [more.pdf notes.txt ...]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *topic, *numQuestions, *outPath, flag.Args()); err != nil {
		log.Error("Quiz generation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, topic string, n int, outPath string, files []string) error {
	components, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer components.Close()

	var pages []domain.RawPage
	for _, path := range files {
		filePages, err := ingestFile(ctx, components.Ingestor, path)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		log.Info("Document ingested", zap.String("file", path), zap.Int("pages", len(filePages)))
		pages = append(pages, filePages...)
	}

	chunks, err := components.Indexing.IndexPages(ctx, pages)
	if err != nil {
		return err
	}
	log.Info("Documents indexed", zap.Int("pages", len(pages)), zap.Int("chunks", chunks))

	bank, genErr := components.Quizzes.CreateQuiz(ctx, topic, n)
	if bank == nil {
		return genErr
	}

	out := quizOutput{
		Topic:     topic,
		Requested: bank.Requested(),
		Generated: bank.Len(),
		Shortfall: bank.Shortfall(),
		Questions: bank.Questions(),
		Slots:     bank.Slots(),
	}
	if genErr != nil {
		out.Error = genErr.Error()
	}
	if err := writeJSON(outPath, out); err != nil {
		return err
	}
	if genErr != nil && !errors.Is(genErr, context.Canceled) {
		return genErr
	}
	return nil
}

func ingestFile(ctx context.Context, ingestor domain.DocumentIngestor, path string) ([]domain.RawPage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return ingestor.Ingest(ctx, filepath.Base(path), f, info.Size())
}

func writeJSON(path string, v any) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

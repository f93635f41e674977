// Copyright 2025 Siam Juris Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/siamjuris/clauseindex"
	"github.com/siamjuris/clauseindex/ai"
	"github.com/siamjuris/clauseindex/chunker"
	"github.com/siamjuris/clauseindex/citegraph"
	"github.com/siamjuris/clauseindex/core"
	"github.com/siamjuris/clauseindex/ingestion"
	"github.com/siamjuris/clauseindex/search"
)

func main() {
	dataFlag := &cli.StringFlag{
		Name:     "data",
		Aliases:  []string{"d"},
		Usage:    "Path to the index data directory",
		Required: true,
	}
	aiFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "bge-m3",
		},
		&cli.StringFlag{
			Name:  "extractor-host",
			Usage: "Extraction service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "extractor-model",
			Usage: "Extraction model name",
			Value: "qwen2.5:3b",
		},
	}

	app := &cli.App{
		Name:  "clauseindex",
		Usage: "Hybrid retrieval engine for Thai legal documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Chunk, embed, and index a legal document",
				ArgsUsage: "FILE",
				Action:    ingestCommand,
				Flags: append([]cli.Flag{
					dataFlag,
					&cli.StringFlag{
						Name:     "class",
						Usage:    "Document class (regulation, order, guideline, standard)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title (defaults to the first line of the file)",
					},
					&cli.StringFlag{
						Name:  "announce-date",
						Usage: "Announcement date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "effective-date",
						Usage: "Effective date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "expire-date",
						Usage: "Expire date (YYYY-MM-DD)",
					},
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Treat the document as a new edition of an existing lineage",
					},
				}, aiFlags...),
			},
			{
				Name:      "search",
				Usage:     "Query the index",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					dataFlag,
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Search mode (general, regulation, order, guideline, standard)",
						Value: "general",
					},
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   search.DefaultResultCount,
					},
					&cli.StringFlag{
						Name:  "date",
						Usage: "Reference date results must be valid on (YYYY-MM-DD, defaults to today)",
					},
				}, aiFlags...),
			},
			{
				Name:      "build-citations",
				Usage:     "Extract clause citations from secondary documents into the citation graph",
				ArgsUsage: "DIR",
				Action:    buildCitationsCommand,
				Flags: append([]cli.Flag{
					dataFlag,
					&cli.StringFlag{
						Name:     "mode",
						Usage:    "Extraction mode for the documents (guideline or order)",
						Required: true,
					},
				}, aiFlags...),
			},
			{
				Name:   "expire",
				Usage:  "Stamp an expire date on every chunk of a document version",
				Action: expireCommand,
				Flags: append([]cli.Flag{
					dataFlag,
					&cli.StringFlag{
						Name:     "document-id",
						Usage:    "Document version identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "date",
						Usage:    "Expire date (YYYY-MM-DD)",
						Required: true,
					},
				}, aiFlags...),
			},
			{
				Name:   "delete",
				Usage:  "Remove a document version's chunks and metadata",
				Action: deleteCommand,
				Flags: append([]cli.Flag{
					dataFlag,
					&cli.StringFlag{
						Name:     "document-id",
						Usage:    "Document version identifier",
						Required: true,
					},
				}, aiFlags...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openSystem(c *cli.Context) (*clauseindex.System, error) {
	opts := []ai.ConfigOption{
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithExtractorModel(c.String("extractor-model")),
	}
	extractorHost := c.String("extractor-host")
	if extractorHost == "" {
		extractorHost = c.String("embedding-host")
	}
	opts = append(opts, ai.WithExtractorHost(extractorHost))

	cfg := ai.NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return clauseindex.NewSystem(c.String("data"), clauseindex.WithAIConfig(cfg))
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one document file argument")
	}
	class, err := core.ParseDocumentClass(c.String("class"))
	if err != nil {
		return fmt.Errorf("invalid class %q: %w", c.String("class"), err)
	}
	raw, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	sys, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	pipeline, err := sys.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	doc := chunker.Document{
		Title:         c.String("title"),
		Text:          string(raw),
		Class:         class,
		AnnounceDate:  c.String("announce-date"),
		EffectiveDate: c.String("effective-date"),
		ExpireDate:    c.String("expire-date"),
	}

	ctx := context.Background()
	var res *ingestion.Result
	if c.Bool("replace") {
		res, err = pipeline.ReplaceDocument(ctx, doc)
	} else {
		res, err = pipeline.IngestDocument(ctx, doc)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %q (version %d, %d chunks, document id %s)\n",
		res.LawName, res.Version, res.Chunks, res.DocumentID)
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("expected a query argument")
	}
	query := search.Query{
		Text: strings.Join(c.Args().Slice(), " "),
		K:    c.Int("top"),
		Mode: search.Mode(c.String("mode")),
	}
	if date := c.String("date"); date != "" {
		ref, err := core.ParseDate(date)
		if err != nil {
			return fmt.Errorf("invalid reference date %q: %w", date, err)
		}
		query.ReferenceDate = ref
	}

	sys, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	searcher, err := sys.NewSearcher()
	if err != nil {
		return err
	}

	results, err := searcher.Search(context.Background(), query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. [%.4f] %s — %s (%s, version %d)\n",
			i+1, r.Score, r.Record.LawName, r.Record.ID, r.Record.DocClass, r.Record.Version)
		fmt.Printf("   %s\n", snippet(r.Record.Text, 200))
		for _, rel := range r.Related {
			fmt.Printf("   linked: %s — %s\n", rel.LawName, rel.ID)
		}
	}
	return nil
}

func buildCitationsCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one source directory argument")
	}
	var mode ai.ExtractMode
	switch c.String("mode") {
	case string(ai.ModeGuideline):
		mode = ai.ModeGuideline
	case string(ai.ModeOrder):
		mode = ai.ModeOrder
	default:
		return fmt.Errorf("invalid extraction mode %q: must be guideline or order", c.String("mode"))
	}

	entries, err := os.ReadDir(c.Args().First())
	if err != nil {
		return fmt.Errorf("reading source directory: %w", err)
	}
	var docs []citegraph.SourceDocument
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(c.Args().First(), entry.Name()))
		if err != nil {
			return fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		text := string(raw)
		docs = append(docs, citegraph.SourceDocument{
			Title: chunker.ExtractTitle(text),
			Text:  text,
			Mode:  mode,
		})
	}
	if len(docs) == 0 {
		return fmt.Errorf("no .txt documents found in %s", c.Args().First())
	}

	sys, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	builder, err := sys.NewGraphBuilder()
	if err != nil {
		return err
	}

	merged, err := builder.ProcessBatch(context.Background(), docs)
	if err != nil {
		return err
	}
	if err := builder.Graph().Save(sys.CitationsDir()); err != nil {
		return fmt.Errorf("saving citation graph: %w", err)
	}

	fmt.Printf("Processed %d documents, merged citations from %d, graph now covers %d regulations\n",
		len(docs), merged, builder.Graph().Len())
	return nil
}

func expireCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	pipeline, err := sys.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	updated, err := pipeline.ExpireDocument(context.Background(), c.String("document-id"), c.String("date"))
	if err != nil {
		return err
	}
	fmt.Printf("Expired %d chunks of document %s at %s\n", updated, c.String("document-id"), c.String("date"))
	return nil
}

func deleteCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	pipeline, err := sys.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	removed, err := pipeline.DeleteDocument(context.Background(), c.String("document-id"))
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d chunks of document %s\n", removed, c.String("document-id"))
	return nil
}

func snippet(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

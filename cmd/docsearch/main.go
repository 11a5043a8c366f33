// Copyright 2026 Lexscope Labs
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

	"github.com/lexscope/docsearch"
	"github.com/lexscope/docsearch/ai"
	"github.com/lexscope/docsearch/core"
	"github.com/lexscope/docsearch/ingestion"
	"github.com/lexscope/docsearch/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "docsearch",
		Usage: "Chunk legal documents and search their passages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:     "db",
				Aliases:  []string{"d"},
				Usage:    "Path to BadgerDB database directory",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: "text-embedding-3-small",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "index",
				Usage:     "Register a document and index its extracted text",
				ArgsUsage: "<text-file>",
				Action:    indexCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:     "owner",
						Usage:    "Owning user ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Document type label",
						Value: "contract",
					},
					&cli.IntFlag{
						Name:  "max-tokens",
						Usage: "Token budget per chunk",
						Value: 0,
					},
					&cli.IntFlag{
						Name:  "overlap-tokens",
						Usage: "Context overlap between sub-chunks",
						Value: -1,
					},
				},
			},
			{
				Name:      "reindex",
				Usage:     "Rebuild the chunks of an existing document",
				ArgsUsage: "<document-id> <text-file>",
				Action:    reindexCommand,
			},
			{
				Name:      "search",
				Usage:     "Search passages across visible documents",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:     "caller",
						Usage:    "Calling user ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "privileged",
						Usage: "Search across all users' documents",
					},
					&cli.StringFlag{
						Name:  "documents",
						Usage: "Comma-separated document IDs to search within",
					},
					&cli.StringFlag{
						Name:  "filename",
						Usage: "Only documents whose filename contains this substring",
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Only documents of this type",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List documents visible to a user",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:     "caller",
						Usage:    "Calling user ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "privileged",
						Usage: "List all users' documents",
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a document and all of its chunks",
				ArgsUsage: "<document-id>",
				Action:    deleteCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(c *cli.Context) (*docsearch.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := docsearch.NewDatabase(c.String("db"), docsearch.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func indexCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one text file argument")
	}
	path := c.Args().First()

	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read text file: %w", err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	doc, err := db.DocumentRepository().AddDocument(ctx, &core.Document{
		OwnerID:  core.ID(c.Uint64("owner")),
		Filename: filepath.Base(path),
		Type:     c.String("type"),
	})
	if err != nil {
		return fmt.Errorf("failed to register document: %w", err)
	}

	var pipelineOpts []ingestion.Option
	if maxTokens := c.Int("max-tokens"); maxTokens > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithMaxTokens(maxTokens))
	}
	if overlap := c.Int("overlap-tokens"); overlap >= 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithOverlapTokens(overlap))
	}

	pipeline, err := db.NewIngestionPipeline(pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	chunks, err := pipeline.IndexDocument(ctx, doc.Id, string(text))
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("indexed document %d (%s): %d chunks\n", doc.Id, doc.Filename, len(chunks))
	return nil
}

func reindexCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected <document-id> <text-file>")
	}
	ids, dropped := search.ParseDocumentIDs(c.Args().Get(0))
	if len(dropped) > 0 || len(ids) != 1 {
		return fmt.Errorf("invalid document ID %q", c.Args().Get(0))
	}

	text, err := os.ReadFile(c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("failed to read text file: %w", err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	chunks, err := pipeline.ReindexDocument(context.Background(), ids[0], string(text))
	if err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}

	fmt.Printf("reindexed document %d: %d chunks\n", ids[0], len(chunks))
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one query argument")
	}
	query := c.Args().First()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	filter := search.ScopeFilter{
		FilenameContains: c.String("filename"),
		DocumentType:     c.String("type"),
	}
	var dropped []string
	if raw := c.String("documents"); raw != "" {
		filter.DocumentIDs, dropped = search.ParseDocumentIDs(raw)
	}

	caller := core.Caller{Id: core.ID(c.Uint64("caller")), Privileged: c.Bool("privileged")}
	result, err := searcher.Search(context.Background(), caller, query, filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for _, tok := range dropped {
		fmt.Fprintf(os.Stderr, "ignoring malformed document ID %q\n", tok)
	}
	if result.Fallback {
		fmt.Fprintln(os.Stderr, "no strong matches inside the filter; showing best available")
	}
	if result.Guidance != "" {
		fmt.Println(result.Guidance)
	}

	for i, p := range result.Passages {
		fmt.Printf("%2d. %s #%d [%s]", i+1, p.DocumentName, p.ChunkIndex, p.SectionType)
		if p.SimilarityPercent > 0 {
			fmt.Printf(" %.1f%%", p.SimilarityPercent)
		}
		fmt.Println()
		fmt.Println(indent(snippet(p.Content, 300), "    "))
	}
	return nil
}

func listCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	caller := core.Caller{Id: core.ID(c.Uint64("caller")), Privileged: c.Bool("privileged")}
	docs, err := db.DocumentRepository().ListDocuments(context.Background(), caller)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	for _, doc := range docs {
		fmt.Printf("%d\t%s\t%s\t%s\n", doc.Id, doc.Status, doc.Type, doc.Filename)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one document ID argument")
	}
	ids, dropped := search.ParseDocumentIDs(c.Args().First())
	if len(dropped) > 0 || len(ids) != 1 {
		return fmt.Errorf("invalid document ID %q", c.Args().First())
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	if err := pipeline.RemoveDocument(context.Background(), ids[0]); err != nil {
		return fmt.Errorf("deletion failed: %w", err)
	}

	fmt.Printf("deleted document %d\n", ids[0])
	return nil
}

func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
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

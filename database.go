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


// Package docsearch wires storage, chunking, embedding, and retrieval into
// one database handle for indexing documents and searching their passages.
package docsearch

import (
	"log/slog"

	"github.com/lexscope/docsearch/ai"
	"github.com/lexscope/docsearch/ai/openai"
	"github.com/lexscope/docsearch/ingestion"
	"github.com/lexscope/docsearch/search"
	"github.com/lexscope/docsearch/storage"
	"github.com/lexscope/docsearch/storage/badger"
	"github.com/lexscope/docsearch/token"
)

// Database bundles the repositories and the AI provider behind one handle.
type Database struct {
	backend   *badger.Backend
	chunkRepo storage.ChunkRepository
	docRepo   storage.DocumentRepository
	provider  ai.Provider
	counter   token.Counter
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	counter  token.Counter
	inMemory bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects an already-built AI provider, bypassing the
// OpenAI-compatible default. Intended for tests and embedded setups.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithTokenCounter replaces the default tiktoken counter.
func WithTokenCounter(counter token.Counter) DatabaseOption {
	return func(o *databaseOptions) {
		o.counter = counter
	}
}

// WithInMemory opens the storage backend in memory, ignoring filePath.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the chunk store at filePath and connects the embedding
// provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	docRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			docRepo.Close()
			chunkRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	counter := options.counter
	if counter == nil {
		counter, err = token.NewTiktokenCounter()
		if err != nil {
			provider.Close()
			docRepo.Close()
			chunkRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:   backend,
		chunkRepo: chunkRepo,
		docRepo:   docRepo,
		provider:  provider,
		counter:   counter,
		logger:    slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.docRepo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := db.chunkRepo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.docRepo
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.chunkRepo, db.docRepo, db.provider, db.counter, opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.chunkRepo, db.docRepo, db.provider, opts...)
}

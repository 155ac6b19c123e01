// Package rag implements the question answering pipeline: embed, retrieve,
// assemble, prompt, generate.
package rag

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/eiyo/internal/config"
	"github.com/hyperjump/eiyo/internal/embedding"
	"github.com/hyperjump/eiyo/internal/llm"
	"github.com/hyperjump/eiyo/internal/models"
	"github.com/hyperjump/eiyo/internal/store"
	"github.com/hyperjump/eiyo/pkg/utils"
)

// Pipeline runs one question through the full answering flow. Each call is a
// single attempt: no stage retries internally, and the first failure aborts
// the request. Stateless across requests; safe for concurrent use when its
// components are.
type Pipeline struct {
	embedder  embedding.Embedder
	store     store.PassageStore
	generator llm.Generator
	cfg       *config.RAGConfig
	logger    *zap.Logger
}

// NewPipeline wires the pipeline components together.
func NewPipeline(embedder embedding.Embedder, st store.PassageStore, generator llm.Generator, cfg *config.RAGConfig, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		embedder:  embedder,
		store:     st,
		generator: generator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Answer runs req through the pipeline and returns the grounded answer with
// its citations. When req carries an embedding it is used as the query vector
// as-is; otherwise the query text is embedded first. Zero retrieved passages
// short-circuits to a fixed answer with no sources and no generator call.
func (p *Pipeline) Answer(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &Error{Kind: KindInvalidInput, Stage: StageValidate, Err: err}
	}

	start := time.Now()
	p.logger.Info("answering query",
		zap.String("query", utils.Truncate(req.Query, 120)),
		zap.Bool("caller_embedding", len(req.Embedding) > 0),
	)

	queryEmbedding := req.Embedding
	if len(queryEmbedding) == 0 {
		var err error
		queryEmbedding, err = p.embedder.Embed(ctx, req.Query)
		if err != nil {
			return nil, &Error{Kind: KindEmbeddingUnavailable, Stage: StageEmbed, Err: err}
		}
	}

	passages, err := p.store.MatchPassages(ctx, queryEmbedding, p.cfg.MatchCount)
	if err != nil {
		return nil, &Error{Kind: KindRetrievalFailed, Stage: StageRetrieve, Err: err}
	}
	p.logger.Debug("retrieved passages", zap.Int("count", len(passages)))

	if len(passages) == 0 {
		p.logger.Info("no matching passages",
			zap.Duration("duration", time.Since(start)),
		)
		return &models.ChatResponse{
			Answer:  NoContextAnswer,
			Sources: []models.Citation{},
		}, nil
	}

	contextBlock, citations := Assemble(passages)
	prompt := BuildPrompt(contextBlock, req.Query)

	answer, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, &Error{Kind: KindGenerationFailed, Stage: StageGenerate, Err: err}
	}

	if max := p.cfg.MaxSources; max > 0 && len(citations) > max {
		citations = citations[:max]
	}

	p.logger.Info("answered query",
		zap.Int("sources", len(citations)),
		zap.Int("answer_length", len(answer)),
		zap.Duration("duration", time.Since(start)),
	)
	return &models.ChatResponse{Answer: answer, Sources: citations}, nil
}

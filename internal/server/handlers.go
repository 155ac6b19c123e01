package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/eiyo/internal/models"
	"github.com/hyperjump/eiyo/internal/rag"
	"github.com/hyperjump/eiyo/internal/store"
	"github.com/hyperjump/eiyo/pkg/utils"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := s.pipeline.Answer(r.Context(), &req)
	if err != nil {
		kind := rag.KindOf(err)
		if kind == rag.KindInvalidInput {
			s.respondError(w, http.StatusBadRequest, rag.UserMessage(err))
			return
		}
		s.logger.Error("chat request failed",
			zap.String("kind", string(kind)),
			zap.String("stage", string(rag.StageOf(err))),
			zap.String("query", utils.Truncate(req.Query, 120)),
			zap.Error(err),
		)
		s.respondError(w, http.StatusInternalServerError, rag.UserMessage(err))
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleAddPassages(w http.ResponseWriter, r *http.Request) {
	var inputs []*models.PassageInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(inputs) == 0 {
		s.respondError(w, http.StatusBadRequest, "no passages provided")
		return
	}

	passages := make([]*models.Passage, 0, len(inputs))
	var toEmbed []string
	var toEmbedAt []int
	for i, in := range inputs {
		if in.Content == "" {
			s.respondError(w, http.StatusBadRequest, "passage content cannot be empty")
			return
		}
		id := in.ID
		if id == "" {
			id = uuid.New().String()
		}
		passages = append(passages, &models.Passage{
			ID:        id,
			Content:   in.Content,
			Metadata:  in.Metadata,
			Embedding: in.Embedding,
		})
		if len(in.Embedding) == 0 {
			toEmbed = append(toEmbed, in.Content)
			toEmbedAt = append(toEmbedAt, i)
		}
	}

	if len(toEmbed) > 0 {
		embeddings, err := s.embedder.EmbedBatch(r.Context(), toEmbed)
		if err != nil {
			s.logger.Error("passage embedding failed", zap.Int("count", len(toEmbed)), zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, "failed to embed passages")
			return
		}
		for j, idx := range toEmbedAt {
			passages[idx].Embedding = embeddings[j]
		}
	}

	if err := s.store.AddPassages(r.Context(), passages); err != nil {
		s.logger.Error("add passages failed", zap.Int("count", len(passages)), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to store passages")
		return
	}

	ids := make([]string, len(passages))
	for i, p := range passages {
		ids[i] = p.ID
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{"ids": ids, "status": "stored"})
}

func (s *Server) handleGetPassage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.store.GetPassage(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "passage not found")
		return
	}
	s.respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePassage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete passage request", zap.String("id", id))
	if err := s.store.DeletePassage(r.Context(), id); err != nil {
		s.logger.Error("deletion failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to delete passage")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountPassages(r.Context())
	if err != nil {
		s.logger.Error("status: count passages failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to read store status")
		return
	}

	resp := map[string]interface{}{
		"passages":          count,
		"vector_index_size": s.store.IndexSize(),
		"config": map[string]interface{}{
			"embedding_provider":   s.config.Embedding.Provider,
			"embedding_dimensions": s.config.Embedding.Dimensions,
			"llm_provider":         s.config.LLM.Provider,
			"llm_model":            s.config.LLM.Model,
			"match_count":          s.config.RAG.MatchCount,
			"max_sources":          s.config.RAG.MaxSources,
			"database_path":        s.config.Storage.DatabasePath,
		},
	}
	if diskBytes, err := store.DiskUsageBytes(s.config.Storage.DatabasePath); err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

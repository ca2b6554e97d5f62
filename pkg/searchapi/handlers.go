package searchapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/searchkit/pkg/logger"
	"github.com/dmitrymomot/searchkit/pkg/search"
)

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	core := chi.URLParam(r, "core")
	req, err := selectParams(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	// An empty key bypasses the cache.
	var key string
	if gen, err := s.generation(r.Context(), core); err != nil {
		s.log.WarnContext(r.Context(), "select cache unavailable", logger.Core(core), logger.Error(err))
	} else {
		key = fmt.Sprintf("select:%s:%s:%s", core, gen, r.URL.Query().Encode())
	}
	if key != "" {
		if raw, err := s.cache.Get(r.Context(), key); err == nil {
			writeData(w, json.RawMessage(raw), map[string]any{"cached": true})
			return
		}
	}

	res, err := s.registry.Core(core).Search(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	if raw, err := json.Marshal(res); err == nil && key != "" {
		if err := s.cache.Set(r.Context(), key, raw, s.ttl); err != nil {
			s.log.WarnContext(r.Context(), "failed to cache select result", logger.Core(core), logger.Error(err))
		}
	}
	writeData(w, res, map[string]any{"cached": false})
}

// handleUpdate indexes the JSON object or array of objects in the body.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	core := chi.URLParam(r, "core")
	var body any
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	var docs []any
	switch v := body.(type) {
	case []any:
		docs = make([]any, 0, len(v))
		for _, item := range v {
			docs = append(docs, asDocument(item))
		}
	default:
		docs = []any{asDocument(v)}
	}

	resp, err := s.registry.Core(core).Put(r.Context(), docs...)
	s.afterWrite(r.Context(), core, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, resp, map[string]any{"documents": len(docs)})
}

type deleteRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	core := chi.URLParam(r, "core")
	var body deleteRequest
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	resp, err := s.registry.Core(core).Delete(r.Context(), body.IDs...)
	s.afterWrite(r.Context(), core, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, resp, map[string]any{"documents": len(body.IDs)})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Core(chi.URLParam(r, "core")).Optimize(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, resp, nil)
}

// afterWrite invalidates cached results unless the write never reached the
// service. A transport failure may still have applied part of the batch.
func (s *Server) afterWrite(ctx context.Context, core string, err error) {
	switch search.KindOf(err) {
	case search.KindConfiguration, search.KindInvalidDocument, search.KindUnavailable:
		return
	}
	if _, err := s.invalidate(ctx, core); err != nil {
		s.log.ErrorContext(ctx, "failed to invalidate select cache", logger.Core(core), logger.Error(err))
		return
	}
	s.log.DebugContext(ctx, "select cache invalidated", logger.Core(core))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodySize))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return badRequest("request body too large")
		}
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

// asDocument turns decoded JSON objects into search.Map; anything else is
// passed through and rejected by the document mapper.
func asDocument(v any) any {
	if m, ok := v.(map[string]any); ok {
		return search.Map(m)
	}
	return v
}

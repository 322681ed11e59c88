package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flowkit/flowkit/pkg/autosave"
	"github.com/flowkit/flowkit/pkg/cache"
	fkerrors "github.com/flowkit/flowkit/pkg/errors"
	"github.com/flowkit/flowkit/pkg/export"
	"github.com/flowkit/flowkit/pkg/flowchart"
	"github.com/flowkit/flowkit/pkg/layout"
	"github.com/flowkit/flowkit/pkg/project"
)

const maxBodyBytes = 8 << 20 // 8 MiB

type positionResponse struct {
	Positions map[string]flowchart.Point `json:"positions"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// readGraph decodes a .fchart document from the request body and applies it
// to a fresh graph. It returns the raw body too so export handlers can use
// it as a cache key.
func readGraph(r *http.Request) (*flowchart.Graph, []byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fkerrors.Wrap(fkerrors.ErrCodeInvalidProject, err, "failed to read request body")
	}
	doc, err := project.Read(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fkerrors.Wrap(fkerrors.ErrCodeInvalidProject, err, "invalid project document")
	}
	g := flowchart.New()
	doc.Apply(g)
	return g, body, nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	g, _, err := readGraph(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	positions := layout.Compute(g.Nodes(), g.Edges(), s.layoutOpts)
	writeJSON(w, http.StatusOK, positionResponse{Positions: positions})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	g, body, err := readGraph(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	key := cache.ArtifactKey(cache.Hash(body), format, s.scale)
	if data, hit, err := s.artifacts.Get(r.Context(), key); err == nil && hit {
		s.logger.Debug("export cache hit", "format", format)
		w.Header().Set("Content-Type", contentType(format))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	data, err := s.render(r.Context(), g, format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.artifacts.Set(r.Context(), key, data, 24*time.Hour); err != nil {
		s.logger.Warn("failed to cache export artifact", "error", err)
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) render(ctx context.Context, g *flowchart.Graph, format string) ([]byte, error) {
	nodes, edges := g.Nodes(), g.Edges()
	switch format {
	case "mermaid":
		return []byte(export.Mermaid(nodes, edges)), nil
	case "txt":
		return []byte(export.Text(nodes, edges)), nil
	case "dot":
		return []byte(export.ToDOT(nodes, edges)), nil
	case "svg":
		return export.RenderSVG(ctx, export.ToDOT(nodes, edges))
	case "png":
		opts := []export.PNGOption{}
		if s.scale > 0 {
			opts = append(opts, export.WithScale(s.scale))
		}
		if s.background != "" {
			opts = append(opts, export.WithBackground(s.background))
		}
		return export.RenderPNG(nodes, edges, opts...)
	default:
		return nil, fkerrors.New(fkerrors.ErrCodeUnsupported, "unsupported export format: %s", format)
	}
}

func (s *Server) handleAutosaveGet(w http.ResponseWriter, r *http.Request) {
	state, err := s.store.Load(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if state == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no autosave state", Code: string(fkerrors.ErrCodeNotFound)})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleAutosavePut(w http.ResponseWriter, r *http.Request) {
	var state autosave.State
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&state); err != nil {
		s.writeError(w, fkerrors.Wrap(fkerrors.ErrCodeInvalidFormat, err, "invalid autosave payload"))
		return
	}
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now().UTC()
	}
	if err := s.store.Save(r.Context(), &state); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleAutosaveDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := fkerrors.GetCode(err)
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: fkerrors.UserMessage(err), Code: string(code)})
}

func statusForCode(code fkerrors.Code) int {
	switch code {
	case fkerrors.ErrCodeInvalidProject, fkerrors.ErrCodeInvalidFormat, fkerrors.ErrCodeInvalidNode, fkerrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case fkerrors.ErrCodeNotFound, fkerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case fkerrors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func contentType(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "svg":
		return "image/svg+xml"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

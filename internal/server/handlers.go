package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/specialistvlad/climeta/internal/config"
	"github.com/specialistvlad/climeta/internal/docfmt"
	"github.com/specialistvlad/climeta/internal/editor"
	"github.com/specialistvlad/climeta/internal/model"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields []editor.RowError `json:"fields,omitempty"`
}

// ChoiceRequest is the body of POST /api/arguments/{id}/choices.
type ChoiceRequest struct {
	Choice string `json:"choice"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleSetProgram(w http.ResponseWriter, r *http.Request) {
	var p model.ProgramMetadata
	if !s.readJSON(w, r, &p) {
		return
	}
	s.session.SetProgram(p)
	s.writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleAddArgument(w http.ResponseWriter, r *http.Request) {
	var spec model.ArgumentSpec
	if !s.readJSON(w, r, &spec) {
		return
	}
	row := s.session.Add(spec)
	w.Header().Set("Location", "/api/arguments/"+row.ID)
	s.writeJSON(w, http.StatusCreated, row)
}

func (s *Server) handleUpdateArgument(w http.ResponseWriter, r *http.Request) {
	var spec model.ArgumentSpec
	if !s.readJSON(w, r, &spec) {
		return
	}
	row, err := s.session.Update(r.PathValue("id"), spec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleRemoveArgument(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Remove(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddChoice(w http.ResponseWriter, r *http.Request) {
	var req ChoiceRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	row, err := s.session.AddChoice(r.PathValue("id"), req.Choice)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleRemoveChoice(w http.ResponseWriter, r *http.Request) {
	row, err := s.session.RemoveChoice(r.PathValue("id"), r.PathValue("choice"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	codec, ok := s.codecFor(w, r)
	if !ok {
		return
	}
	out, err := s.session.Generate(r.Context(), codec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	filename := docfmt.DefaultFilename
	if codec.Format() != config.FormatFlat {
		filename = "cli_config" + codec.Format().Extension()
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	codec, ok := s.codecFor(w, r)
	if !ok {
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("failed to read body: %v", err)})
		return
	}
	snap, err := s.session.Import(r.Context(), codec, data)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// codecFor selects the codec named by the "format" query parameter, the
// flat format when absent.
func (s *Server) codecFor(w http.ResponseWriter, r *http.Request) (config.Codec, bool) {
	format := config.FormatFlat
	if f := r.URL.Query().Get("format"); f != "" {
		format = config.Format(f)
	}
	codec, err := s.codecs.Codec(format)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return nil, false
	}
	return codec, true
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var gerr *editor.GenerateError
	switch {
	case errors.As(err, &gerr):
		s.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Fields: gerr.Fields})
	case errors.Is(err, editor.ErrRowNotFound):
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, editor.ErrDuplicateChoice):
		s.writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, editor.ErrEmptyChoice):
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		s.logger.Error("Request failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

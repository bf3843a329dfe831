package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vijay-1577/campus-registry/internal/ids"
	"github.com/vijay-1577/campus-registry/internal/model"
	"github.com/vijay-1577/campus-registry/internal/store"
)

type createProgramRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	TeachingStaff string `json:"teaching_staff_id"`
}

type patchProgramRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	TeachingStaff *string `json:"teaching_staff_id"`
}

type programResponse struct {
	ProgramID         string   `json:"program_id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	TeachingStaff     *string  `json:"teaching_staff_id"`
	PrimaryLearners   []string `json:"primary_learners"`
	SecondaryLearners []string `json:"secondary_learners"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

func toProgramResponse(p model.Program) programResponse {
	return programResponse{
		ProgramID:         p.ProgramID,
		Name:              p.Name,
		Description:       p.Description,
		TeachingStaff:     p.TeachingStaffID,
		PrimaryLearners:   p.PrimaryLearnerIDs,
		SecondaryLearners: p.SecondaryLearnerIDs,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         p.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	var req createProgramRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	now := time.Now().UTC()
	program := model.Program{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if id := strings.TrimSpace(req.TeachingStaff); id != "" {
		program.TeachingStaffID = &id
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		program.ProgramID = ids.NewPublicID(ids.ProgramPrefix)
		created, err := s.store.CreateProgram(r.Context(), program)
		if errors.Is(err, store.ErrDuplicateID) {
			continue
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toProgramResponse(created))
		return
	}
	writeError(w, http.StatusInternalServerError, "id_allocation_failed")
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	program, err := s.store.GetProgram(r.Context(), chi.URLParam(r, "programId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgramResponse(program))
}

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_pagination")
		return
	}

	programs, total, err := s.store.ListPrograms(r.Context(), params.Offset(), params.Limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	items := make([]programResponse, 0, len(programs))
	for _, p := range programs {
		items = append(items, toProgramResponse(p))
	}
	writeJSON(w, http.StatusOK, newListResponse(r, params, items, total))
}

func (s *Server) handlePatchProgram(w http.ResponseWriter, r *http.Request) {
	var req patchProgramRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	update := store.ProgramUpdate{
		Name:            req.Name,
		Description:     req.Description,
		TeachingStaffID: req.TeachingStaff,
	}

	program, err := s.store.UpdateProgram(r.Context(), chi.URLParam(r, "programId"), update)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgramResponse(program))
}

func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProgram(r.Context(), chi.URLParam(r, "programId")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

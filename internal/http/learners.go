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

type createLearnerRequest struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	PrimaryProgram    string `json:"primary_program_id"`
	SecondaryPrograms string `json:"secondary_programs"`
}

type patchLearnerRequest struct {
	FirstName         *string `json:"first_name"`
	LastName          *string `json:"last_name"`
	Email             *string `json:"email"`
	PrimaryProgram    *string `json:"primary_program_id"`
	SecondaryPrograms *string `json:"secondary_programs"`
}

type learnerResponse struct {
	LearnerID         string   `json:"learner_id"`
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	Email             string   `json:"email"`
	PrimaryProgram    *string  `json:"primary_program_id"`
	SecondaryPrograms []string `json:"secondary_programs"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

func toLearnerResponse(l model.Learner) learnerResponse {
	return learnerResponse{
		LearnerID:         l.LearnerID,
		FirstName:         l.FirstName,
		LastName:          l.LastName,
		Email:             l.Email,
		PrimaryProgram:    l.PrimaryProgramID,
		SecondaryPrograms: l.SecondaryProgramIDs,
		CreatedAt:         l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         l.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleCreateLearner(w http.ResponseWriter, r *http.Request) {
	var req createLearnerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	now := time.Now().UTC()
	learner := model.Learner{
		Person: model.Person{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			CreatedAt: now,
			UpdatedAt: now,
		},
		SecondaryProgramIDs: parseIDList(req.SecondaryPrograms),
	}
	if id := strings.TrimSpace(req.PrimaryProgram); id != "" {
		learner.PrimaryProgramID = &id
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		learner.LearnerID = ids.NewPublicID(ids.LearnerPrefix)
		created, err := s.store.CreateLearner(r.Context(), learner)
		if errors.Is(err, store.ErrDuplicateID) {
			continue
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toLearnerResponse(created))
		return
	}
	writeError(w, http.StatusInternalServerError, "id_allocation_failed")
}

func (s *Server) handleGetLearner(w http.ResponseWriter, r *http.Request) {
	learner, err := s.store.GetLearner(r.Context(), chi.URLParam(r, "learnerId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLearnerResponse(learner))
}

func (s *Server) handleListLearners(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_pagination")
		return
	}

	learners, total, err := s.store.ListLearners(r.Context(), params.Offset(), params.Limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	items := make([]learnerResponse, 0, len(learners))
	for _, l := range learners {
		items = append(items, toLearnerResponse(l))
	}
	writeJSON(w, http.StatusOK, newListResponse(r, params, items, total))
}

func (s *Server) handlePatchLearner(w http.ResponseWriter, r *http.Request) {
	var req patchLearnerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	// Email is the cross-subtype identity and cannot change, even to
	// its current value.
	if req.Email != nil {
		writeError(w, http.StatusBadRequest, "immutable_field")
		return
	}

	update := store.LearnerUpdate{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		PrimaryProgramID: req.PrimaryProgram,
	}
	if req.SecondaryPrograms != nil {
		parsed := parseIDList(*req.SecondaryPrograms)
		update.SecondaryProgramIDs = &parsed
	}

	learner, err := s.store.UpdateLearner(r.Context(), chi.URLParam(r, "learnerId"), update)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLearnerResponse(learner))
}

func (s *Server) handleDeleteLearner(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteLearner(r.Context(), chi.URLParam(r, "learnerId")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

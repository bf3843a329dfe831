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

type createStaffRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	ProgramsTaught string `json:"programs_taught"`
}

type patchStaffRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email"`
	ProgramsTaught *string `json:"programs_taught"`
}

type staffResponse struct {
	StaffID        string   `json:"staff_id"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Email          string   `json:"email"`
	ProgramsTaught []string `json:"programs_taught"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

func toStaffResponse(st model.Staff) staffResponse {
	return staffResponse{
		StaffID:        st.StaffID,
		FirstName:      st.FirstName,
		LastName:       st.LastName,
		Email:          st.Email,
		ProgramsTaught: st.ProgramIDsTaught,
		CreatedAt:      st.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      st.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleCreateStaff(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
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
	staff := model.Staff{
		Person: model.Person{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			CreatedAt: now,
			UpdatedAt: now,
		},
		ProgramIDsTaught: parseIDList(req.ProgramsTaught),
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		staff.StaffID = ids.NewPublicID(ids.StaffPrefix)
		created, err := s.store.CreateStaff(r.Context(), staff)
		if errors.Is(err, store.ErrDuplicateID) {
			continue
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toStaffResponse(created))
		return
	}
	writeError(w, http.StatusInternalServerError, "id_allocation_failed")
}

func (s *Server) handleGetStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := s.store.GetStaff(r.Context(), chi.URLParam(r, "staffId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStaffResponse(staff))
}

func (s *Server) handleListStaff(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_pagination")
		return
	}

	staff, total, err := s.store.ListStaff(r.Context(), params.Offset(), params.Limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	items := make([]staffResponse, 0, len(staff))
	for _, st := range staff {
		items = append(items, toStaffResponse(st))
	}
	writeJSON(w, http.StatusOK, newListResponse(r, params, items, total))
}

func (s *Server) handlePatchStaff(w http.ResponseWriter, r *http.Request) {
	var req patchStaffRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Email != nil {
		writeError(w, http.StatusBadRequest, "immutable_field")
		return
	}

	update := store.StaffUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.ProgramsTaught != nil {
		parsed := parseIDList(*req.ProgramsTaught)
		update.ProgramIDsTaught = &parsed
	}

	staff, err := s.store.UpdateStaff(r.Context(), chi.URLParam(r, "staffId"), update)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStaffResponse(staff))
}

func (s *Server) handleDeleteStaff(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteStaff(r.Context(), chi.URLParam(r, "staffId")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

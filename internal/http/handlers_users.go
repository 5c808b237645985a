package http

import (
	"net/http"

	"fintrack/internal/core"
)

// handleListUsers returns every user together with a summary of their
// transactions, computed on every call.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.summaries.ListUsersWithSummary(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if users == nil {
		users = []core.UserWithSummary{}
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	user, err := s.summaries.GetUserWithSummary(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if decodeErr, validationErr := decodeRequest(r.Body, &req); decodeErr != nil {
		respondError(w, http.StatusBadRequest, decodeErr.Error())
		return
	} else if validationErr != nil {
		respondError(w, http.StatusUnprocessableEntity, validationErr.Error())
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.toUser())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateUserRequest
	if decodeErr, validationErr := decodeRequest(r.Body, &req); decodeErr != nil {
		respondError(w, http.StatusBadRequest, decodeErr.Error())
		return
	} else if validationErr != nil {
		respondError(w, http.StatusUnprocessableEntity, validationErr.Error())
		return
	}

	user, err := s.store.UpdateUser(r.Context(), id, req.toPatch())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// handleDeleteUser removes the user and all of their transactions.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteUser(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

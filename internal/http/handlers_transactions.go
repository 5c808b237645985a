package http

import (
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	// Listing transactions for an unknown user is a 404, not an empty list.
	if _, err := s.store.GetUser(r.Context(), userID); err != nil {
		respondStoreError(w, err)
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), userID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	var req createTransactionRequest
	if decodeErr, validationErr := decodeRequest(r.Body, &req); decodeErr != nil {
		respondError(w, http.StatusBadRequest, decodeErr.Error())
		return
	} else if validationErr != nil {
		respondError(w, http.StatusUnprocessableEntity, validationErr.Error())
		return
	}

	if _, err := s.store.GetUser(r.Context(), userID); err != nil {
		respondStoreError(w, err)
		return
	}

	tx, err := req.toTransaction(userID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	created, err := s.store.CreateTransaction(r.Context(), tx)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateTransactionRequest
	if decodeErr, validationErr := decodeRequest(r.Body, &req); decodeErr != nil {
		respondError(w, http.StatusBadRequest, decodeErr.Error())
		return
	} else if validationErr != nil {
		respondError(w, http.StatusUnprocessableEntity, validationErr.Error())
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		respondStoreError(w, err)
		return
	}

	tx, err := s.store.UpdateTransaction(r.Context(), id, patch)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

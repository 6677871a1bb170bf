package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
	"github.com/vncsmyrnk/pollmanagement/internal/core/ports"
)

type VotingItemHandler struct {
	service ports.VotingItemService
	log     logrus.FieldLogger
}

func NewVotingItemHandler(service ports.VotingItemService, log logrus.FieldLogger) *VotingItemHandler {
	return &VotingItemHandler{
		service: service,
		log:     log,
	}
}

type voteRequest struct {
	UserID uuid.UUID         `json:"user_id"`
	Action domain.VoteAction `json:"action"`
}

func (h *VotingItemHandler) UpdateVoteCount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.votingItemID(w, r)
	if !ok {
		return
	}

	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, h.log, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.UpdateVoteCount(r.Context(), ports.VoteInput{
		VotingItemID: id,
		UserID:       requestUser(r, req.UserID),
		Action:       req.Action,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}

func (h *VotingItemHandler) GetVoteCount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.votingItemID(w, r)
	if !ok {
		return
	}

	count, err := h.service.GetVoteCount(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, count)
}

func (h *VotingItemHandler) votingItemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeErrorMessage(w, h.log, http.StatusBadRequest, "invalid voting item id")
		return 0, false
	}
	return id, true
}

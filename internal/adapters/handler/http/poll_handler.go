package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/pollmanagement/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
	log     logrus.FieldLogger
}

func NewPollHandler(service ports.PollService, log logrus.FieldLogger) *PollHandler {
	return &PollHandler{
		service: service,
		log:     log,
	}
}

type createPollRequest struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	NumAnswersAllowed int       `json:"nof_answers_allowed"`
	CreatorID         uuid.UUID `json:"creator_id"`
	GroupID           string    `json:"group_id"`
	Deadline          string    `json:"deadline"`
	VotingItems       []string  `json:"voting_items"`
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, h.log, http.StatusBadRequest, "invalid request body")
		return
	}

	input := ports.CreatePollInput{
		Title:             req.Title,
		Description:       req.Description,
		NumAnswersAllowed: req.NumAnswersAllowed,
		CreatorID:         requestUser(r, req.CreatorID),
		GroupID:           req.GroupID,
		Deadline:          req.Deadline,
		VotingItems:       req.VotingItems,
	}

	view, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusCreated, view)
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListPolls(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, views)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pollID(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetPoll(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, view)
}

type updatePollRequest struct {
	UserID      uuid.UUID `json:"user_id"`
	GroupID     string    `json:"group_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pollID(w, r)
	if !ok {
		return
	}

	var req updatePollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, h.log, http.StatusBadRequest, "invalid request body")
		return
	}

	update, err := h.service.Update(r.Context(), ports.UpdatePollInput{
		PollID:      id,
		UserID:      requestUser(r, req.UserID),
		GroupID:     req.GroupID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, update)
}

type deletePollRequest struct {
	UserID  uuid.UUID `json:"user_id"`
	GroupID string    `json:"group_id"`
}

type deletePollResponse struct {
	PollID uuid.UUID `json:"poll_id"`
}

func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pollID(w, r)
	if !ok {
		return
	}

	var req deletePollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, h.log, http.StatusBadRequest, "invalid request body")
		return
	}

	deleted, err := h.service.Delete(r.Context(), ports.DeletePollInput{
		PollID:  id,
		UserID:  requestUser(r, req.UserID),
		GroupID: req.GroupID,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, deletePollResponse{PollID: deleted})
}

func (h *PollHandler) ListGroupPolls(w http.ResponseWriter, r *http.Request) {
	userID, err := optionalUser(r)
	if err != nil {
		writeErrorMessage(w, h.log, http.StatusBadRequest, "invalid user id")
		return
	}

	views, err := h.service.ListByGroup(r.Context(), chi.URLParam(r, "groupID"), userID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, views)
}

type groupIDsRequest struct {
	GroupIDs []string `json:"group_ids"`
}

func (h *PollHandler) ListMultipleGroupPolls(w http.ResponseWriter, r *http.Request) {
	userID, err := optionalUser(r)
	if err != nil {
		writeErrorMessage(w, h.log, http.StatusBadRequest, "invalid user id")
		return
	}

	var req groupIDsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, h.log, http.StatusBadRequest, "invalid request body")
		return
	}

	views, err := h.service.ListByGroups(r.Context(), req.GroupIDs, userID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, views)
}

type deleteGroupPollsResponse struct {
	PollIDs []uuid.UUID `json:"poll_ids"`
}

func (h *PollHandler) DeleteGroupPolls(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.DeleteGroupPolls(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, deleteGroupPollsResponse{PollIDs: ids})
}

func (h *PollHandler) ListUserPolls(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeErrorMessage(w, h.log, http.StatusBadRequest, "invalid user id")
		return
	}

	views, err := h.service.ListUserPolls(r.Context(), requestUser(r, userID))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, views)
}

func (h *PollHandler) pollID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorMessage(w, h.log, http.StatusBadRequest, "invalid poll id")
		return uuid.Nil, false
	}
	return id, true
}

package handler

import (
	"net/http"

	"github.com/femtrack/forum/internal/api"
	"github.com/femtrack/forum/internal/domain"
	"github.com/femtrack/forum/internal/utils"
)

func (h *Handler) GetTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.store.ListTopics(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.TopicsResponse{Topics: topics})
}

func (h *Handler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var body api.CreateTopicRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	topic, err := h.store.CreateTopic(r.Context(), domain.TopicCreationData{
		Slug:        body.Slug,
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.TopicResponse{Topic: topic})
}

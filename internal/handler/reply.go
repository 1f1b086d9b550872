package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/femtrack/forum/internal/api"
	"github.com/femtrack/forum/internal/domain"
	"github.com/femtrack/forum/internal/utils"
)

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	var body api.CreateReplyRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	reply, err := h.store.CreateReply(r.Context(),
		chi.URLParam(r, "slug"),
		chi.URLParam(r, "postId"),
		domain.ReplyCreationData{
			Content: body.Content,
			Author:  body.Author,
		})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.ReplyResponse{Reply: reply})
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/femtrack/forum/internal/api"
	"github.com/femtrack/forum/internal/domain"
	"github.com/femtrack/forum/internal/utils"
)

func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	utils.WriteJSON(w, http.StatusOK, api.PostsResponse{Posts: posts})
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var body api.CreatePostRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.store.CreatePost(r.Context(), chi.URLParam(r, "slug"), domain.PostCreationData{
		Title:   body.Title,
		Content: body.Content,
		Author:  body.Author,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.PostResponse{Post: post})
}

package rest

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/posts/application"
)

// PostsHandler handles HTTP requests for posts and their comments
type PostsHandler struct {
	*BaseHandler
	service *application.PostsService
}

// NewPostsHandler creates a new posts handler
func NewPostsHandler(base *BaseHandler, service *application.PostsService) *PostsHandler {
	return &PostsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ListPosts returns every post, newest first
func (h *PostsHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, posts, http.StatusOK)
}

// CreatePost creates a post authored by the caller
func (h *PostsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	// Bearer middleware guarantees this exists
	userID := h.GetUserIDFromContext(r)

	var req createPostRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	params := application.CreatePostParams{
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: req.ImageURL,
		Category: getStringValue(req.Category),
	}

	post, err := h.service.CreatePost(r.Context(), userID, params)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, post, http.StatusCreated)
}

// GetPost returns a single post
func (h *PostsHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.service.GetPost(r.Context(), postID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, post, http.StatusOK)
}

// UpdatePost changes the scalar fields the caller sent
func (h *PostsHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	var req updatePostRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	params := application.UpdatePostParams{
		Title:    req.Title.toDomain(),
		Body:     req.Body.toDomain(),
		ImageURL: req.ImageURL.toDomain(),
		Category: req.Category.toDomain(),
	}

	post, err := h.service.UpdatePost(r.Context(), userID, postID, params)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, post, http.StatusOK)
}

// DeletePost removes a post together with its comments
func (h *PostsHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePost(r.Context(), userID, postID); err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, messageResponse{Message: "Post deleted"}, http.StatusOK)
}

// IncrementViews counts one view; it is open to anonymous callers
func (h *PostsHandler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.service.IncrementViews(r.Context(), postID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, post, http.StatusOK)
}

// AddComment appends a comment by the caller. Content is checked before
// the post identifier.
func (h *PostsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	var req commentRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		h.HandleError(w, r, application.ErrMissingContent)
		return
	}

	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.service.AddComment(r.Context(), userID, postID, req.Content)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, post, http.StatusCreated)
}

// EditComment replaces the content of one of the caller's comments
func (h *PostsHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	postID, commentID, ok := h.commentIDs(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	post, err := h.service.EditComment(r.Context(), userID, postID, commentID, req.Content)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, post, http.StatusOK)
}

// RemoveComment deletes one of the caller's comments
func (h *PostsHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	postID, commentID, ok := h.commentIDs(w, r)
	if !ok {
		return
	}

	post, err := h.service.RemoveComment(r.Context(), userID, postID, commentID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, post, http.StatusOK)
}

func (h *PostsHandler) postID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	return h.ParseUUID(w, r, chi.URLParam(r, "postId"), "postId")
}

func (h *PostsHandler) commentIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	postID, ok := h.postID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	commentID, ok := h.ParseUUID(w, r, chi.URLParam(r, "commentId"), "commentId")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return postID, commentID, true
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/crucial-sub/sub-board/internal/delivery/http/response"
	"github.com/crucial-sub/sub-board/internal/domain/repository"
	"github.com/crucial-sub/sub-board/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PostHandler holds dependencies for board post handlers.
type PostHandler struct {
	uc usecase.PostUsecase
}

// NewPostHandler is the constructor for PostHandler, injected by Fx.
func NewPostHandler(uc usecase.PostUsecase) *PostHandler {
	return &PostHandler{uc: uc}
}

type createPostRequest struct {
	Title   string   `json:"title" validate:"required,min=1,max=120"`
	Content string   `json:"content" validate:"required,min=1"`
	Tags    []string `json:"tags" validate:"omitempty,max=10"`
}

type updatePostRequest struct {
	Title   *string  `json:"title" validate:"omitempty,min=1,max=120"`
	Content *string  `json:"content" validate:"omitempty,min=1"`
	Tags    []string `json:"tags" validate:"omitempty,max=10"`
}

// Create handles new post submission.
func (h *PostHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid post input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	post, err := h.uc.CreatePost(c.Request().Context(), userID, usecase.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, post, "Post created successfully")
}

// List returns one page of posts, newest first. Supports keyword and tag
// filters via query parameters.
func (h *PostHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	filter := repository.PostFilter{
		Keyword: c.QueryParam("keyword"),
		Tag:     c.QueryParam("tag"),
	}

	posts, err := h.uc.ListPosts(c.Request().Context(), page, pageSize, filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, posts, "Posts retrieved successfully")
}

// Get returns a post detail with its comments.
func (h *PostHandler) Get(c echo.Context) error {
	postID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.uc.GetPost(c.Request().Context(), postID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, post, "Post retrieved successfully")
}

// Update applies partial changes to the caller's own post.
func (h *PostHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	postID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid post input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	post, err := h.uc.UpdatePost(c.Request().Context(), userID, postID, usecase.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, post, "Post updated successfully")
}

// Delete removes the caller's own post with its comments.
func (h *PostHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	postID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeletePost(c.Request().Context(), userID, postID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListTags returns every tag with its usage count, alphabetically.
func (h *PostHandler) ListTags(c echo.Context) error {
	tags, err := h.uc.ListTags(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tags, "Tags retrieved successfully")
}

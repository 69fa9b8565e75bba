package handler

import (
	"net/http"

	"github.com/crucial-sub/sub-board/internal/delivery/http/response"
	"github.com/crucial-sub/sub-board/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CommentHandler holds dependencies for comment handlers.
type CommentHandler struct {
	uc usecase.CommentUsecase
}

// NewCommentHandler is the constructor for CommentHandler, injected by Fx.
func NewCommentHandler(uc usecase.CommentUsecase) *CommentHandler {
	return &CommentHandler{uc: uc}
}

type createCommentRequest struct {
	PostID  string `json:"postId" validate:"required,uuid"`
	Content string `json:"content" validate:"required,min=1"`
}

type updateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// Create attaches a comment to a post.
func (h *CommentHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid comment input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	postID, err := parseUUID(req.PostID, "postId")
	if err != nil {
		return err
	}

	comment, err := h.uc.CreateComment(c.Request().Context(), userID, postID, req.Content)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, comment, "Comment created successfully")
}

// Update edits the caller's own comment.
func (h *CommentHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	commentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateCommentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid comment input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	comment, err := h.uc.UpdateComment(c.Request().Context(), userID, commentID, req.Content)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, comment, "Comment updated successfully")
}

// Delete removes the caller's own comment.
func (h *CommentHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	commentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteComment(c.Request().Context(), userID, commentID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/crucial-sub/sub-board/internal/domain/entity"
	domainerrors "github.com/crucial-sub/sub-board/internal/domain/errors"
	"github.com/crucial-sub/sub-board/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCommentService(users *mockUserRepository, posts *mockPostRepository, comments *mockCommentRepository, hub *recordingHub) *commentService {
	txManager := &stubTxManager{factory: &stubFactory{users: users, posts: posts, comments: comments}}

	return NewCommentService(txManager, hub, newDiscardLogger()).(*commentService)
}

func TestCommentService_CreateComment_NotifiesPostAuthor(t *testing.T) {
	users := &mockUserRepository{}
	posts := &mockPostRepository{}
	comments := &mockCommentRepository{}
	hub := &recordingHub{}
	srv := newCommentService(users, posts, comments, hub)

	ctx := context.Background()
	postAuthorID := uuid.New()
	commentAuthor := &entity.User{ID: uuid.New(), LoginID: "commenter", Nickname: "다람쥐"}
	post := &entity.Post{
		ID:     uuid.New(),
		Title:  "첫 글",
		Author: &entity.PublicUser{ID: postAuthorID, Nickname: "작성자"},
	}
	commentID := uuid.New()

	posts.On("FindByID", ctx, post.ID).Return(post, nil)
	users.On("FindByID", ctx, commentAuthor.ID).Return(commentAuthor, nil)
	comments.On("Create", ctx, mock.AnythingOfType("*entity.Comment")).
		Run(func(args mock.Arguments) {
			comment := args.Get(1).(*entity.Comment)
			comment.ID = commentID
			comment.CreatedAt = time.Now()
		}).
		Return(nil)

	comment, err := srv.CreateComment(ctx, commentAuthor.ID, post.ID, "재밌게 읽었어요!")

	require.NoError(t, err)
	assert.Equal(t, commentID, comment.ID)

	// Toast copy goes to the post's author only, with the routing hints set.
	require.Len(t, hub.targeted, 1)
	assert.Equal(t, []uuid.UUID{postAuthorID}, hub.targeted[0].userIDs)
	toast := hub.targeted[0].event
	assert.Equal(t, entity.EventCommentCreated, toast.Kind)
	assert.Equal(t, "새 댓글", toast.Title)
	assert.Equal(t, "다람쥐님: 재밌게 읽었어요!", toast.Message)
	require.NotNil(t, toast.PostAuthorID)
	assert.Equal(t, postAuthorID, *toast.PostAuthorID)
	require.NotNil(t, toast.PostID)
	assert.Equal(t, post.ID, *toast.PostID)

	// The broadcast copy carries no toast hint but keeps the post id so
	// open detail views can refresh.
	require.Len(t, hub.broadcasts, 1)
	broadcast := hub.broadcasts[0]
	assert.Nil(t, broadcast.PostAuthorID)
	require.NotNil(t, broadcast.PostID)
	assert.Equal(t, post.ID, *broadcast.PostID)
	assert.NotEqual(t, toast.ID, broadcast.ID)
}

func TestCommentService_CreateComment_SelfCommentSkipsToast(t *testing.T) {
	users := &mockUserRepository{}
	posts := &mockPostRepository{}
	comments := &mockCommentRepository{}
	hub := &recordingHub{}
	srv := newCommentService(users, posts, comments, hub)

	ctx := context.Background()
	author := &entity.User{ID: uuid.New(), Nickname: "작성자"}
	post := &entity.Post{
		ID:     uuid.New(),
		Author: &entity.PublicUser{ID: author.ID, Nickname: author.Nickname},
	}

	posts.On("FindByID", ctx, post.ID).Return(post, nil)
	users.On("FindByID", ctx, author.ID).Return(author, nil)
	comments.On("Create", ctx, mock.AnythingOfType("*entity.Comment")).Return(nil)

	_, err := srv.CreateComment(ctx, author.ID, post.ID, "셀프 댓글")

	require.NoError(t, err)
	// Commenting on one's own post raises no toast; the cache refresh
	// broadcast still goes out.
	assert.Empty(t, hub.targeted)
	assert.Len(t, hub.broadcasts, 1)
}

func TestCommentService_CreateComment_PostMissing(t *testing.T) {
	users := &mockUserRepository{}
	posts := &mockPostRepository{}
	comments := &mockCommentRepository{}
	hub := &recordingHub{}
	srv := newCommentService(users, posts, comments, hub)

	ctx := context.Background()
	postID := uuid.New()

	posts.On("FindByID", ctx, postID).Return(nil, repository.ErrPostNotFound)

	_, err := srv.CreateComment(ctx, uuid.New(), postID, "댓글")

	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
	assert.Empty(t, hub.broadcasts)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentService_ExcerptBoundary(t *testing.T) {
	// 50-rune comments pass through untouched; 51 runes cut to 47 plus an
	// ellipsis.
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "short", content: "짧은 댓글", want: "짧은 댓글"},
		{name: "exactly 50", content: strings.Repeat("가", 50), want: strings.Repeat("가", 50)},
		{name: "51 runes", content: strings.Repeat("가", 51), want: strings.Repeat("가", 47) + "..."},
		{name: "long ascii", content: strings.Repeat("a", 120), want: strings.Repeat("a", 47) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commentExcerpt(tt.content))
		})
	}
}

func TestCommentService_UpdateComment_OwnershipEnforced(t *testing.T) {
	users := &mockUserRepository{}
	posts := &mockPostRepository{}
	comments := &mockCommentRepository{}
	srv := newCommentService(users, posts, comments, &recordingHub{})

	ctx := context.Background()
	owner := uuid.New()
	comment := &entity.Comment{
		ID:      uuid.New(),
		Content: "원본",
		Author:  &entity.PublicUser{ID: owner},
	}

	comments.On("FindByID", ctx, comment.ID).Return(comment, nil)

	_, err := srv.UpdateComment(ctx, uuid.New(), comment.ID, "수정")

	assert.ErrorIs(t, err, domainerrors.ErrCommentUpdateForbidden)
	comments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCommentService_DeleteComment(t *testing.T) {
	users := &mockUserRepository{}
	posts := &mockPostRepository{}
	comments := &mockCommentRepository{}
	srv := newCommentService(users, posts, comments, &recordingHub{})

	ctx := context.Background()
	owner := uuid.New()
	comment := &entity.Comment{ID: uuid.New(), Author: &entity.PublicUser{ID: owner}}

	comments.On("FindByID", ctx, comment.ID).Return(comment, nil)
	comments.On("Delete", ctx, comment.ID).Return(nil)

	require.NoError(t, srv.DeleteComment(ctx, owner, comment.ID))

	t.Run("someone else's comment", func(t *testing.T) {
		err := srv.DeleteComment(ctx, uuid.New(), comment.ID)
		assert.ErrorIs(t, err, domainerrors.ErrCommentDeleteForbidden)
	})
}

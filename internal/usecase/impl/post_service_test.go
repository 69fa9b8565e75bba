package impl

import (
	"context"
	"strings"
	"testing"

	"github.com/crucial-sub/sub-board/internal/domain/entity"
	domainerrors "github.com/crucial-sub/sub-board/internal/domain/errors"
	"github.com/crucial-sub/sub-board/internal/domain/repository"
	"github.com/crucial-sub/sub-board/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPostService(users *mockUserRepository, posts *mockPostRepository, hub *recordingHub) *postService {
	txManager := &stubTxManager{factory: &stubFactory{users: users, posts: posts}}

	return NewPostService(txManager, hub, newDiscardLogger()).(*postService)
}

func TestPostService_CreatePost_BroadcastsEvent(t *testing.T) {
	users := &mockUserRepository{}
	posts := &mockPostRepository{}
	hub := &recordingHub{}
	srv := newPostService(users, posts, hub)

	ctx := context.Background()
	author := &entity.User{ID: uuid.New(), LoginID: "crucial-sub", Nickname: "다람쥐"}
	postID := uuid.New()

	users.On("FindByID", ctx, author.ID).Return(author, nil)
	posts.On("Create", ctx, mock.AnythingOfType("*entity.Post"), []string{"Go", "백엔드"}).
		Run(func(args mock.Arguments) {
			post := args.Get(1).(*entity.Post)
			post.ID = postID
		}).
		Return(nil)

	post, err := srv.CreatePost(ctx, author.ID, usecase.CreatePostInput{
		Title:   "첫 글",
		Content: "본문",
		Tags:    []string{"#Go", " 백엔드 ", "go"},
	})

	require.NoError(t, err)
	assert.Equal(t, postID, post.ID)

	require.Len(t, hub.broadcasts, 1)
	event := hub.broadcasts[0]
	assert.Equal(t, entity.EventPostCreated, event.Kind)
	assert.Equal(t, "새 게시글", event.Title)
	assert.Equal(t, `다람쥐님이 "첫 글" 글을 작성했어요.`, event.Message)
	assert.Equal(t, "/posts/"+postID.String(), event.Href)
	require.NotNil(t, event.Author)
	assert.Equal(t, author.ID, event.Author.ID)
}

func TestPostService_CreatePost_AuthorMissing(t *testing.T) {
	users := &mockUserRepository{}
	posts := &mockPostRepository{}
	hub := &recordingHub{}
	srv := newPostService(users, posts, hub)

	ctx := context.Background()
	authorID := uuid.New()

	users.On("FindByID", ctx, authorID).Return(nil, repository.ErrUserNotFound)

	_, err := srv.CreatePost(ctx, authorID, usecase.CreatePostInput{Title: "제목", Content: "본문"})

	assert.ErrorIs(t, err, domainerrors.ErrAuthorNotFound)
	// A failed create never reaches the hub.
	assert.Empty(t, hub.broadcasts)
}

func TestPostService_GetPost_IncrementsViewCount(t *testing.T) {
	users := &mockUserRepository{}
	posts := &mockPostRepository{}
	srv := newPostService(users, posts, &recordingHub{})

	ctx := context.Background()
	post := &entity.Post{ID: uuid.New(), ViewCount: 3, Author: &entity.PublicUser{ID: uuid.New()}}

	posts.On("FindByID", ctx, post.ID).Return(post, nil)
	posts.On("IncrementViewCount", ctx, post.ID).Return(nil)

	got, err := srv.GetPost(ctx, post.ID)

	require.NoError(t, err)
	// The snapshot reflects the count before this visit.
	assert.Equal(t, 3, got.ViewCount)
	posts.AssertCalled(t, "IncrementViewCount", ctx, post.ID)
}

func TestPostService_ListPosts_ClampsPaging(t *testing.T) {
	users := &mockUserRepository{}
	posts := &mockPostRepository{}
	srv := newPostService(users, posts, &recordingHub{})

	ctx := context.Background()
	empty := &entity.PostPage{Items: []*entity.Post{}, Page: 1, PageSize: 10}

	posts.On("List", ctx, 1, 10, repository.PostFilter{}).Return(empty, nil).Once()
	_, err := srv.ListPosts(ctx, 0, 0, repository.PostFilter{})
	require.NoError(t, err)

	posts.On("List", ctx, 2, 50, repository.PostFilter{Keyword: "golang"}).Return(empty, nil).Once()
	_, err = srv.ListPosts(ctx, 2, 500, repository.PostFilter{Keyword: "  golang  "})
	require.NoError(t, err)

	posts.AssertExpectations(t)
}

func TestPostService_UpdatePost_OwnershipEnforced(t *testing.T) {
	users := &mockUserRepository{}
	posts := &mockPostRepository{}
	srv := newPostService(users, posts, &recordingHub{})

	ctx := context.Background()
	owner := uuid.New()
	post := &entity.Post{ID: uuid.New(), Title: "원래 제목", Author: &entity.PublicUser{ID: owner}}

	posts.On("FindByID", ctx, post.ID).Return(post, nil)

	_, err := srv.UpdatePost(ctx, uuid.New(), post.ID, usecase.UpdatePostInput{})

	assert.ErrorIs(t, err, domainerrors.ErrPostForbidden)
	posts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostService_UpdatePost_PartialChanges(t *testing.T) {
	users := &mockUserRepository{}
	posts := &mockPostRepository{}
	srv := newPostService(users, posts, &recordingHub{})

	ctx := context.Background()
	owner := uuid.New()
	post := &entity.Post{ID: uuid.New(), Title: "원래 제목", Content: "원래 본문", Author: &entity.PublicUser{ID: owner}}

	posts.On("FindByID", ctx, post.ID).Return(post, nil)
	posts.On("Update", ctx, mock.AnythingOfType("*entity.Post"), []string(nil)).Return(nil)

	newTitle := "새 제목"
	got, err := srv.UpdatePost(ctx, owner, post.ID, usecase.UpdatePostInput{Title: &newTitle})

	require.NoError(t, err)
	assert.Equal(t, "새 제목", got.Title)
	assert.Equal(t, "원래 본문", got.Content)
}

func TestPostService_DeletePost(t *testing.T) {
	users := &mockUserRepository{}
	posts := &mockPostRepository{}
	srv := newPostService(users, posts, &recordingHub{})

	ctx := context.Background()
	owner := uuid.New()
	post := &entity.Post{ID: uuid.New(), Author: &entity.PublicUser{ID: owner}}

	posts.On("FindByID", ctx, post.ID).Return(post, nil)
	posts.On("Delete", ctx, post.ID).Return(nil)

	require.NoError(t, srv.DeletePost(ctx, owner, post.ID))
	posts.AssertExpectations(t)
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "strips hash and trims",
			in:   []string{"#Go", "  백엔드  ", "#  데이터베이스 "},
			want: []string{"Go", "백엔드", "데이터베이스"},
		},
		{
			name: "dedupes case-insensitively keeping first casing",
			in:   []string{"Go", "go", "GO", "gopher"},
			want: []string{"Go", "gopher"},
		},
		{
			name: "drops empties",
			in:   []string{"", "#", "   ", "valid"},
			want: []string{"valid"},
		},
		{
			name: "caps length at 40 runes",
			in:   []string{strings.Repeat("가", 45)},
			want: []string{strings.Repeat("가", 40)},
		},
		{
			name: "caps count at 10",
			in:   []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"},
			want: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
		},
		{
			name: "nil input",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeTags(tt.in))
		})
	}
}

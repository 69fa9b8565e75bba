package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/crucial-sub/sub-board/internal/domain/entity"
	"github.com/crucial-sub/sub-board/internal/domain/repository"
	"github.com/crucial-sub/sub-board/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubTxManager runs the callback against a fixed factory, standing in for a
// real database transaction.
type stubTxManager struct {
	factory repository.RepositoryFactory
}

func (m *stubTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

// stubFactory hands out the repository mocks wired into it.
type stubFactory struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
}

func (f *stubFactory) UserRepo() repository.UserRepository       { return f.users }
func (f *stubFactory) SessionRepo() repository.SessionRepository { return f.sessions }
func (f *stubFactory) PostRepo() repository.PostRepository       { return f.posts }
func (f *stubFactory) CommentRepo() repository.CommentRepository { return f.comments }

// --- Repository mocks ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) FindByLoginID(ctx context.Context, loginID string) (*entity.User, error) {
	args := m.Called(ctx, loginID)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) FindByNickname(ctx context.Context, nickname string) (*entity.User, error) {
	args := m.Called(ctx, nickname)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Stats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error) {
	args := m.Called(ctx, userID)
	if stats, ok := args.Get(0).(*entity.UserStats); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Session, error) {
	args := m.Called(ctx, userID)
	if sessions, ok := args.Get(0).([]*entity.Session); ok {
		return sessions, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *entity.Post, tags []string) error {
	args := m.Called(ctx, post, tags)
	return args.Error(0)
}

func (m *mockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	args := m.Called(ctx, id)
	if post, ok := args.Get(0).(*entity.Post); ok {
		return post, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostRepository) List(ctx context.Context, page, pageSize int, filter repository.PostFilter) (*entity.PostPage, error) {
	args := m.Called(ctx, page, pageSize, filter)
	if result, ok := args.Get(0).(*entity.PostPage); ok {
		return result, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostRepository) Update(ctx context.Context, post *entity.Post, tags []string) error {
	args := m.Called(ctx, post, tags)
	return args.Error(0)
}

func (m *mockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPostRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPostRepository) ListTags(ctx context.Context) ([]*entity.Tag, error) {
	args := m.Called(ctx)
	if tags, ok := args.Get(0).([]*entity.Tag); ok {
		return tags, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	args := m.Called(ctx, id)
	if comment, ok := args.Get(0).(*entity.Comment); ok {
		return comment, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCommentRepository) Update(ctx context.Context, comment *entity.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Service fakes ---

// fakeTokenService mints deterministic token pairs and verifies refresh
// tokens against preconfigured claims.
type fakeTokenService struct {
	claims    *service.Claims
	verifyErr error
	issued    int
}

func (f *fakeTokenService) IssueTokens(uuid.UUID, string) (*entity.AuthTokens, error) {
	f.issued++
	return &entity.AuthTokens{
		AccessToken:           fmt.Sprintf("access-%d", f.issued),
		RefreshToken:          fmt.Sprintf("refresh-%d", f.issued),
		AccessTokenExpiresIn:  900,
		RefreshTokenExpiresIn: 1209600,
	}, nil
}

func (f *fakeTokenService) VerifyAccessToken(string) (*service.Claims, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.claims, nil
}

func (f *fakeTokenService) VerifyRefreshToken(string) (*service.Claims, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.claims, nil
}

func (f *fakeTokenService) RefreshTokenDuration() time.Duration {
	return 1209600 * time.Second
}

// fakeTokenHasher marks hashes deterministically so tests can construct
// matching and non-matching session rows.
type fakeTokenHasher struct{}

func (fakeTokenHasher) Hash(token string) (string, error) {
	return "hashed:" + token, nil
}

func (fakeTokenHasher) Matches(token, hash string) bool {
	return hash == "hashed:"+token
}

// fakePasswordHasher is a transparent stand-in for bcrypt.
type fakePasswordHasher struct{}

func (fakePasswordHasher) Hash(password string) (string, error) {
	return "pw:" + password, nil
}

func (fakePasswordHasher) Check(password, hash string) bool {
	return hash == "pw:"+password
}

// recordingHub captures every publish for assertion.
type targetedPublish struct {
	userIDs []uuid.UUID
	event   entity.NotificationEvent
}

type recordingHub struct {
	mu         sync.Mutex
	broadcasts []entity.NotificationEvent
	targeted   []targetedPublish
}

func (h *recordingHub) Subscribe(uuid.UUID) service.Subscription {
	return nil
}

func (h *recordingHub) PublishToAll(event entity.NotificationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcasts = append(h.broadcasts, event)
}

func (h *recordingHub) PublishToUsers(userIDs []uuid.UUID, event entity.NotificationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.targeted = append(h.targeted, targetedPublish{userIDs: userIDs, event: event})
}

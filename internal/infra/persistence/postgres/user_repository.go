package postgres

import (
	"context"

	"github.com/crucial-sub/sub-board/internal/domain/entity"
	domainerrors "github.com/crucial-sub/sub-board/internal/domain/errors"
	"github.com/crucial-sub/sub-board/internal/domain/repository"
	"github.com/crucial-sub/sub-board/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Create persists a new user account.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			// Uniqueness is pre-checked in the use case; reaching this
			// means a concurrent registration won the insert race.
			return domainerrors.NewDatabaseExecuteError(err, "unique constraint violated on user insert")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// FindByID retrieves a user by its unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toUserDomain(&userM), nil
}

// FindByLoginID retrieves a user by its login identifier.
func (repo *userRepository) FindByLoginID(ctx context.Context, loginID string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("login_id = ?", loginID).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toUserDomain(&userM), nil
}

// FindByNickname retrieves a user by its display name.
func (repo *userRepository) FindByNickname(ctx context.Context, nickname string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("nickname = ?", nickname).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toUserDomain(&userM), nil
}

// Update persists changes to an existing user.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"nickname":      user.Nickname,
			"password_hash": user.PasswordHash,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrNicknameTaken.WrapMessage("nickname already in use")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// Stats aggregates the user's board activity in a handful of queries.
func (repo *userRepository) Stats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error) {
	stats := &entity.UserStats{TopTags: []entity.TagUsage{}}

	var postCount int64
	if err := repo.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Where("author_id = ?", userID).
		Count(&postCount).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	stats.PostCount = int(postCount)

	var commentCount int64
	if err := repo.db.WithContext(ctx).
		Model(&model.CommentModel{}).
		Where("author_id = ?", userID).
		Count(&commentCount).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	stats.CommentCount = int(commentCount)

	var tagRows []entity.TagUsage
	if err := repo.db.WithContext(ctx).
		Table("tags").
		Select("tags.name AS name, COUNT(*) AS count").
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins("JOIN posts ON posts.id = post_tags.post_id").
		Where("posts.author_id = ?", userID).
		Group("tags.name").
		Order("count DESC, tags.name ASC").
		Limit(3).
		Scan(&tagRows).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	stats.TopTags = append(stats.TopTags, tagRows...)

	var lastPost model.PostModel
	err := repo.db.WithContext(ctx).
		Where("author_id = ?", userID).
		Order("created_at DESC").
		First(&lastPost).Error
	switch {
	case err == nil:
		stats.LastPost = &entity.PostBrief{
			ID:        lastPost.ID,
			Title:     lastPost.Title,
			CreatedAt: lastPost.CreatedAt,
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// A user without posts has no last post.
	default:
		return nil, errors.WithStack(err)
	}

	return stats, nil
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		LoginID:      data.LoginID,
		Nickname:     data.Nickname,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.ID,
		LoginID:      data.LoginID,
		Nickname:     data.Nickname,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

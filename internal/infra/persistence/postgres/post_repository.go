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

// postRepository implements the domain.PostRepository interface.
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository is the constructor for postRepository.
func NewPostRepository(db *gorm.DB) repository.PostRepository {
	return &postRepository{db: db}
}

// Create persists a new post and attaches its tags, creating tags that do
// not exist yet. Tag names arrive already normalized.
func (repo *postRepository) Create(ctx context.Context, post *entity.Post, tags []string) error {
	tagModels, err := repo.resolveTags(ctx, tags)
	if err != nil {
		return err
	}

	postM := &model.PostModel{
		AuthorID: post.Author.ID,
		Title:    post.Title,
		Content:  post.Content,
		Tags:     tagModels,
	}

	if err := repo.db.WithContext(ctx).Create(postM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrAuthorNotFound.WrapMessage("post references unknown author")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create post")
	}

	post.ID = postM.ID
	post.CreatedAt = postM.CreatedAt
	post.UpdatedAt = postM.UpdatedAt
	post.Tags = tags

	return nil
}

// FindByID retrieves a post with author, tags and comments ordered oldest
// first.
func (repo *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var postM model.PostModel
	err := repo.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.Author").
		Where("id = ?", id).
		First(&postM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPostNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toPostDomain(&postM), nil
}

// List returns one page of posts, newest first, with the total count before
// pagination.
func (repo *postRepository) List(ctx context.Context, page, pageSize int, filter repository.PostFilter) (*entity.PostPage, error) {
	query := repo.db.WithContext(ctx).Model(&model.PostModel{})

	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.
			Joins("JOIN users ON users.id = posts.author_id").
			Where("posts.title ILIKE ? OR posts.content ILIKE ? OR users.nickname ILIKE ?", pattern, pattern, pattern)
	}

	if filter.Tag != "" {
		query = query.Where(
			"posts.id IN (SELECT post_tags.post_id FROM post_tags JOIN tags ON tags.id = post_tags.tag_id WHERE tags.name = ?)",
			filter.Tag,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	var postModels []model.PostModel
	if err := query.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		}).
		Order("posts.created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&postModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	posts := make([]*entity.Post, 0, len(postModels))
	for i := range postModels {
		posts = append(posts, toPostDomain(&postModels[i]))
	}

	return &entity.PostPage{
		Items:    posts,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update persists title/content changes and, when tags is non-nil, replaces
// the post's tag set.
func (repo *postRepository) Update(ctx context.Context, post *entity.Post, tags []string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{
			"title":   post.Title,
			"content": post.Content,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update post")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}

	if tags != nil {
		tagModels, err := repo.resolveTags(ctx, tags)
		if err != nil {
			return err
		}

		postM := model.PostModel{ID: post.ID}
		if err := repo.db.WithContext(ctx).Model(&postM).Association("Tags").Replace(tagModels); err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to replace post tags")
		}
		post.Tags = tags
	}

	return nil
}

// Delete removes a post together with its tag links and comments.
func (repo *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
		return errors.WithStack(err)
	}

	if err := repo.db.WithContext(ctx).
		Where("post_id = ?", id).
		Delete(&model.CommentModel{}).Error; err != nil {
		return errors.WithStack(err)
	}

	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.PostModel{})
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}

	return nil
}

// IncrementViewCount bumps the post's view counter atomically.
func (repo *postRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}

	return nil
}

// ListTags returns all tags with their usage counts, sorted by name.
func (repo *postRepository) ListTags(ctx context.Context) ([]*entity.Tag, error) {
	var tagRows []struct {
		ID    uuid.UUID
		Name  string
		Count int
	}
	if err := repo.db.WithContext(ctx).
		Table("tags").
		Select("tags.id AS id, tags.name AS name, COUNT(post_tags.post_id) AS count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("tags.name ASC").
		Scan(&tagRows).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	tags := make([]*entity.Tag, 0, len(tagRows))
	for _, row := range tagRows {
		tags = append(tags, &entity.Tag{
			ID:    row.ID,
			Name:  row.Name,
			Count: row.Count,
		})
	}

	return tags, nil
}

// resolveTags maps normalized tag names to tag rows, inserting missing ones.
func (repo *postRepository) resolveTags(ctx context.Context, tags []string) ([]model.TagModel, error) {
	tagModels := make([]model.TagModel, 0, len(tags))
	for _, name := range tags {
		var tagM model.TagModel
		if err := repo.db.WithContext(ctx).
			Where("name = ?", name).
			FirstOrCreate(&tagM, model.TagModel{Name: name}).Error; err != nil {
			return nil, domainerrors.NewDatabaseExecuteError(err, "failed to resolve tag")
		}
		tagModels = append(tagModels, tagM)
	}

	return tagModels, nil
}

// --- Mapper Functions ---

// toPostDomain converts a GORM PostModel to a domain Post entity.
func toPostDomain(data *model.PostModel) *entity.Post {
	if data == nil {
		return nil
	}

	tags := make([]string, 0, len(data.Tags))
	for _, tagM := range data.Tags {
		tags = append(tags, tagM.Name)
	}

	comments := make([]*entity.Comment, 0, len(data.Comments))
	for i := range data.Comments {
		comments = append(comments, toCommentDomain(&data.Comments[i]))
	}

	return &entity.Post{
		ID:        data.ID,
		Title:     data.Title,
		Content:   data.Content,
		ViewCount: data.ViewCount,
		Author:    toUserDomain(data.Author).ToPublic(),
		Tags:      tags,
		Comments:  comments,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

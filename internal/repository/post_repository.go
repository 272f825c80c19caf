package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/maheshrc27/vizora/internal/models"
)

var ErrPostExists = errors.New("post already exists")

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (string, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetByUserID(ctx context.Context, userID string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	UpdatePostStatus(ctx context.Context, status models.PostStatus, postID string) error
	CheckByUserID(ctx context.Context, postID, userID string) (bool, error)
	Remove(ctx context.Context, id string) error
}

// postRepository keeps posts in process memory; nothing survives a restart.
type postRepository struct {
	mu    sync.RWMutex
	posts map[string]*models.Post
}

func NewPostRepository() PostRepository {
	return &postRepository{posts: make(map[string]*models.Post)}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.ID]; ok {
		return "", ErrPostExists
	}

	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	r.posts[post.ID] = post.Clone()
	return post.ID, nil
}

// GetByID returns nil, nil when the post does not exist.
func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return post.Clone(), nil
}

// GetByUserID returns the user's posts, newest first.
func (r *postRepository) GetByUserID(ctx context.Context, userID string) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var posts []*models.Post
	for _, post := range r.posts {
		if post.UserID == userID {
			posts = append(posts, post.Clone())
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID < posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.ID]; !ok {
		return ErrKeyNotFound
	}
	post.UpdatedAt = time.Now()
	r.posts[post.ID] = post.Clone()
	return nil
}

func (r *postRepository) UpdatePostStatus(ctx context.Context, status models.PostStatus, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[postID]
	if !ok {
		return ErrKeyNotFound
	}
	post.Status = status
	post.UpdatedAt = time.Now()
	return nil
}

func (r *postRepository) CheckByUserID(ctx context.Context, postID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[postID]
	return ok && post.UserID == userID, nil
}

func (r *postRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, id)
	return nil
}

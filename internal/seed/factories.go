// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"chirp/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options controls how much demo data is generated.
type Options struct {
	Users        int
	PostsPerUser int
	// MaxDays spreads post timestamps over this many days back from now.
	MaxDays int
	// PhotoRatio is the fraction of posts that carry a photo URL, 0..1.
	PhotoRatio float64
}

// DefaultOptions returns a small but presentable data set.
func DefaultOptions() Options {
	return Options{Users: 5, PostsPerUser: 30, MaxDays: 90, PhotoRatio: 0.3}
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildUser constructs a user without persisting it.
func (f *Factory) BuildUser() *models.User {
	return &models.User{
		DisplayName: gofakeit.Username(),
		AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser() (*models.User, error) {
	user := f.BuildUser()
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to seed user: %w", err)
	}
	return user, nil
}

// BuildPost constructs a post for the given author without persisting it.
// The author's display name is snapshotted the same way the live write path
// does it.
func (f *Factory) BuildPost(author *models.User) *models.Post {
	post := &models.Post{
		AuthorID:   author.ID,
		AuthorName: author.Name(),
		Text:       truncate(gofakeit.Sentence(f.rng.Intn(18)+3), 200),
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	post.CreatedAt = time.Now().Add(-back)

	if f.rng.Float64() < f.opts.PhotoRatio {
		post.PhotoURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}
	return post
}

// CreatePost builds and persists a post.
func (f *Factory) CreatePost(author *models.User) (*models.Post, error) {
	post := f.BuildPost(author)
	if err := f.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to seed post: %w", err)
	}
	return post, nil
}

// Run populates the database per the factory options.
func (f *Factory) Run() error {
	for i := 0; i < f.opts.Users; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return err
		}
		for j := 0; j < f.opts.PostsPerUser; j++ {
			if _, err := f.CreatePost(user); err != nil {
				return err
			}
		}
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"maeul/internal/models"
	"maeul/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var categoryNames = []string{
	"일상", "여행기", "맛집 탐방", "독서 노트", "개발 일지",
	"사진첩", "요리", "운동 기록", "영화 감상",
}

// Seed populates the database with test data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	ctx := context.Background()

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	seeded := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		username := strings.ToLower(gofakeit.Username())
		if len(username) > 20 {
			username = username[:20]
		}
		username = fmt.Sprintf("%s%d", username, i)

		user := &models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			Password: string(hashed),
		}
		profile := &models.Profile{
			DisplayName: gofakeit.FirstName(),
			BlogName:    gofakeit.BuzzWord(),
			Intro:       gofakeit.Sentence(6),
			Urlname:     username,
		}
		if err := users.CreateWithDefaults(ctx, user, profile); err != nil {
			return fmt.Errorf("seed user %s: %w", username, err)
		}

		// A couple of custom categories per blog.
		for _, name := range pick(r, categoryNames, 2) {
			if err := categories.Create(ctx, &models.Category{UserID: user.ID, Name: name}); err != nil {
				// Name collisions across picks are harmless.
				continue
			}
		}
		seeded = append(seeded, user)
	}
	if len(seeded) == 0 {
		return nil
	}

	// Neighbor mesh: each user sends a few requests, most get accepted.
	for _, user := range seeded {
		for i := 0; i < 3; i++ {
			other := seeded[r.Intn(len(seeded))]
			if other.ID == user.ID {
				continue
			}
			neighbor := &models.Neighbor{
				FromUserID: user.ID,
				ToUserID:   other.ID,
				Message:    gofakeit.Sentence(4),
				Status:     models.NeighborStatusPending,
			}
			if r.Intn(4) > 0 {
				neighbor.Status = models.NeighborStatusAccepted
			}
			db.Create(neighbor)
		}
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := seeded[r.Intn(len(seeded))]
		board, err := categories.GetBoard(ctx, author.ID)
		if err != nil {
			return fmt.Errorf("board for user %d: %w", author.ID, err)
		}

		post := &models.Post{
			UserID:     author.ID,
			CategoryID: board.ID,
			Title:      gofakeit.Sentence(4),
			Content:    gofakeit.Paragraph(1, 3, 8, "\n"),
			Subject:    models.Subjects[r.Intn(len(models.Subjects))],
			Status:     models.PostStatusPublished,
			Visibility: models.VisibilityEveryone,
		}
		switch r.Intn(10) {
		case 0:
			post.Status = models.PostStatusDraft
		case 1:
			post.Visibility = models.VisibilityMutual
		case 2:
			post.Visibility = models.VisibilityMe
		}
		post.CreatedAt = time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour)

		if r.Intn(3) == 0 {
			post.Images = []models.PostImage{{
				URL:              fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
				Caption:          gofakeit.Sentence(3),
				IsRepresentative: true,
			}}
		}
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
		posts = append(posts, post)
	}

	// Comments and hearts on published posts.
	for _, post := range posts {
		if post.Status != models.PostStatusPublished {
			continue
		}
		for i := 0; i < r.Intn(4); i++ {
			commenter := seeded[r.Intn(len(seeded))]
			comment := &models.Comment{
				PostID:    post.ID,
				UserID:    commenter.ID,
				Content:   gofakeit.Sentence(8),
				IsPrivate: r.Intn(10) == 0,
				IsParent:  true,
			}
			db.Create(comment)
			db.Model(&models.Post{}).Where("id = ?", post.ID).
				UpdateColumn("comment_count", gorm.Expr("comment_count + 1"))
		}
		for i := 0; i < r.Intn(3); i++ {
			fan := seeded[r.Intn(len(seeded))]
			res := db.Exec(
				"INSERT INTO hearts (user_id, post_id, is_read, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (user_id, post_id) DO NOTHING",
				fan.ID, post.ID, true, time.Now(),
			)
			if res.Error == nil && res.RowsAffected == 1 {
				db.Model(&models.Post{}).Where("id = ?", post.ID).
					UpdateColumn("like_count", gorm.Expr("like_count + 1"))
			}
		}
	}

	log.Printf("Seeded %d users and %d posts", len(seeded), len(posts))
	return nil
}

// pick returns up to n distinct random elements of list.
func pick(r *rand.Rand, list []string, n int) []string {
	idx := r.Perm(len(list))
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, list[i])
	}
	return out
}

func clearData(db *gorm.DB) error {
	tables := []string{
		"comment_hearts", "hearts", "comments",
		"post_images", "post_texts", "posts",
		"neighbors", "categories", "profiles", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

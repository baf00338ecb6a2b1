package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"maeul/internal/imagestore"
	"maeul/internal/models"
	"maeul/internal/repository"
)

const (
	maxTitleLength   = 100
	maxCaptionLength = 255
	recentPostLimit  = 5
	neighborFeedDays = 7
)

// PostImageInput is one image reference on a post write.
type PostImageInput struct {
	URL              string `json:"url"`
	Caption          string `json:"caption"`
	IsRepresentative bool   `json:"is_representative"`
	ImageGroupID     int    `json:"image_group_id"`
}

// PostTextInput is one styled text block on a post write.
type PostTextInput struct {
	Content  string `json:"content"`
	Font     string `json:"font"`
	FontSize int    `json:"font_size"`
	IsBold   bool   `json:"is_bold"`
}

// CreatePostInput carries a new post. Keyword is absent on purpose: it is
// derived from Subject and never accepted from a client.
type CreatePostInput struct {
	Title      string                `json:"title"`
	Content    string                `json:"content"`
	Subject    string                `json:"subject"`
	CategoryID uint                  `json:"category_id"`
	Status     models.PostStatus     `json:"status"`
	Visibility models.PostVisibility `json:"visibility"`
	Texts      []PostTextInput       `json:"texts"`
	Images     []PostImageInput      `json:"images"`
}

// UpdatePostInput carries a post edit. Nil pointer fields are untouched;
// nil slices keep the existing texts/images, empty slices clear them.
type UpdatePostInput struct {
	Title      *string                `json:"title"`
	Content    *string                `json:"content"`
	Subject    *string                `json:"subject"`
	CategoryID *uint                  `json:"category_id"`
	Status     *models.PostStatus     `json:"status"`
	Visibility *models.PostVisibility `json:"visibility"`
	Texts      []PostTextInput        `json:"texts"`
	Images     []PostImageInput       `json:"images"`
}

// PostFilters mirrors the list query string. Keyword is exclusive: it
// cannot be combined with any other filter. CategoryID only works inside
// an owner scope, so it requires Urlname.
type PostFilters struct {
	Urlname    string
	CategoryID uint
	PostID     uint
	Keyword    string
}

// PostService implements the post lifecycle.
type PostService struct {
	posts      repository.PostRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	visibility *VisibilityService
	images     imagestore.Store
}

// NewPostService returns a new PostService.
func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	categories repository.CategoryRepository,
	visibility *VisibilityService,
	images imagestore.Store,
) *PostService {
	return &PostService{
		posts:      posts,
		users:      users,
		categories: categories,
		visibility: visibility,
		images:     images,
	}
}

func validPostStatus(s models.PostStatus) bool {
	return s == models.PostStatusDraft || s == models.PostStatusPublished
}

func validPostVisibility(v models.PostVisibility) bool {
	return v == models.VisibilityEveryone || v == models.VisibilityMutual || v == models.VisibilityMe
}

// buildImages validates the representative invariant and converts the
// inputs. With no flagged image the first one is promoted; more than one
// flagged image is an error.
func buildImages(inputs []PostImageInput) ([]models.PostImage, error) {
	flagged := 0
	for _, in := range inputs {
		if in.IsRepresentative {
			flagged++
		}
	}
	if flagged > 1 {
		return nil, models.NewValidationError("A post can only have one representative image")
	}

	images := make([]models.PostImage, 0, len(inputs))
	for i, in := range inputs {
		if in.URL == "" {
			return nil, models.NewValidationError("Image URL is required")
		}
		if utf8.RuneCountInString(in.Caption) > maxCaptionLength {
			return nil, models.NewValidationError(fmt.Sprintf("Image caption cannot exceed %d characters", maxCaptionLength))
		}
		groupID := in.ImageGroupID
		if groupID == 0 {
			groupID = 1
		}
		images = append(images, models.PostImage{
			URL:              in.URL,
			Caption:          in.Caption,
			IsRepresentative: in.IsRepresentative || (flagged == 0 && i == 0),
			ImageGroupID:     groupID,
		})
	}
	return images, nil
}

func buildTexts(inputs []PostTextInput) []models.PostText {
	texts := make([]models.PostText, 0, len(inputs))
	for _, in := range inputs {
		text := models.PostText{
			Content:  in.Content,
			Font:     in.Font,
			FontSize: in.FontSize,
			IsBold:   in.IsBold,
		}
		if text.Font == "" {
			text.Font = "nanum_gothic"
		}
		if text.FontSize == 0 {
			text.FontSize = 15
		}
		texts = append(texts, text)
	}
	return texts
}

// resolveCategory returns the write target category: the given one when it
// belongs to the author, the author's board when none is given.
func (s *PostService) resolveCategory(ctx context.Context, userID, categoryID uint) (*models.Category, error) {
	if categoryID == 0 {
		return s.categories.GetBoard(ctx, userID)
	}
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, models.NewNotFoundError("Category", categoryID)
	}
	return category, nil
}

// rewriteInline replaces base64 data URIs in content with stored image URLs.
func (s *PostService) rewriteInline(ctx context.Context, content string) (string, error) {
	if s.images == nil || content == "" {
		return content, nil
	}
	rewritten, _, err := imagestore.RewriteInlineImages(ctx, s.images, content)
	if err != nil {
		return "", err
	}
	return rewritten, nil
}

func (s *PostService) CreatePost(ctx context.Context, userID uint, input CreatePostInput) (*models.Post, error) {
	if input.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(input.Title) > maxTitleLength {
		return nil, models.NewValidationError(fmt.Sprintf("Title cannot exceed %d characters", maxTitleLength))
	}
	if input.Subject != "" && !models.ValidSubject(input.Subject) {
		return nil, models.NewValidationError("Unknown post subject")
	}
	if input.Status == "" {
		input.Status = models.PostStatusDraft
	}
	if !validPostStatus(input.Status) {
		return nil, models.NewValidationError("Status must be draft or published")
	}
	if input.Visibility == "" {
		input.Visibility = models.VisibilityEveryone
	}
	if !validPostVisibility(input.Visibility) {
		return nil, models.NewValidationError("Visibility must be everyone, mutual or me")
	}

	category, err := s.resolveCategory(ctx, userID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	images, err := buildImages(input.Images)
	if err != nil {
		return nil, err
	}

	content, err := s.rewriteInline(ctx, input.Content)
	if err != nil {
		return nil, err
	}
	texts := buildTexts(input.Texts)
	for i := range texts {
		if texts[i].Content, err = s.rewriteInline(ctx, texts[i].Content); err != nil {
			return nil, err
		}
	}

	post := &models.Post{
		UserID:     userID,
		CategoryID: category.ID,
		Title:      input.Title,
		Content:    content,
		Subject:    input.Subject,
		Status:     input.Status,
		Visibility: input.Visibility,
		Texts:      texts,
		Images:     images,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns the post when the viewer may read it. Hidden and missing
// posts produce the same not-found error.
func (s *PostService) GetPost(ctx context.Context, viewerID, postID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.visibility.RequireViewPost(ctx, viewerID, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts runs the general feed and its filtered variants. The keyword
// filter stands alone; the category filter only exists inside a blog scope.
func (s *PostService) ListPosts(ctx context.Context, viewerID uint, filters PostFilters, limit, offset int) ([]models.Post, error) {
	if filters.Keyword != "" {
		if filters.Urlname != "" || filters.CategoryID != 0 || filters.PostID != 0 {
			return nil, models.NewValidationError("The keyword filter cannot be combined with other filters")
		}
		if !models.ValidKeyword(filters.Keyword) {
			return nil, models.NewValidationError("Unknown keyword")
		}
	}
	if filters.CategoryID != 0 && filters.Urlname == "" {
		return nil, models.NewValidationError("The category filter requires a blog address")
	}

	scope := ListScopeFromFilters(filters)
	if filters.Urlname != "" {
		profile, err := s.users.GetProfileByUrlname(ctx, filters.Urlname)
		if err != nil {
			return nil, err
		}
		scope.OwnerID = profile.UserID
		if filters.CategoryID != 0 {
			category, err := s.categories.GetByID(ctx, filters.CategoryID)
			if err != nil {
				return nil, err
			}
			if category.UserID != profile.UserID {
				return nil, models.NewNotFoundError("Category", filters.CategoryID)
			}
		}
	}

	return s.posts.List(ctx, viewerID, scope, limit, offset)
}

// ListScopeFromFilters maps the query filters to a repository scope. Own
// posts only appear inside a blog scope or a direct id lookup.
func ListScopeFromFilters(filters PostFilters) repository.ListScope {
	return repository.ListScope{
		CategoryID: filters.CategoryID,
		PostID:     filters.PostID,
		Keyword:    filters.Keyword,
		ExcludeOwn: filters.Urlname == "" && filters.PostID == 0,
	}
}

func (s *PostService) MyPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.posts.ListMine(ctx, userID, limit, offset)
}

func (s *PostService) MyDrafts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.posts.ListDrafts(ctx, userID, limit, offset)
}

func (s *PostService) MyRecentPosts(ctx context.Context, userID uint) ([]models.Post, error) {
	return s.posts.RecentMine(ctx, userID, recentPostLimit)
}

// NeighborFeed lists the viewer's mutual neighbors' posts from the last
// seven days.
func (s *PostService) NeighborFeed(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error) {
	since := time.Now().AddDate(0, 0, -neighborFeedDays)
	return s.posts.NeighborFeed(ctx, viewerID, since, limit, offset)
}

func (s *PostService) UpdatePost(ctx context.Context, userID, postID uint, input UpdatePostInput) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewNotFoundError("Post", postID)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if utf8.RuneCountInString(*input.Title) > maxTitleLength {
			return nil, models.NewValidationError(fmt.Sprintf("Title cannot exceed %d characters", maxTitleLength))
		}
		post.Title = *input.Title
	}
	if input.Subject != nil {
		if !models.ValidSubject(*input.Subject) {
			return nil, models.NewValidationError("Unknown post subject")
		}
		post.Subject = *input.Subject
	}
	if input.Status != nil {
		if !validPostStatus(*input.Status) {
			return nil, models.NewValidationError("Status must be draft or published")
		}
		// Publishing is one-way.
		if post.Status == models.PostStatusPublished && *input.Status == models.PostStatusDraft {
			return nil, models.NewStateError("A published post cannot go back to draft")
		}
		post.Status = *input.Status
	}
	if input.Visibility != nil {
		if !validPostVisibility(*input.Visibility) {
			return nil, models.NewValidationError("Visibility must be everyone, mutual or me")
		}
		post.Visibility = *input.Visibility
	}
	if input.CategoryID != nil {
		category, err := s.resolveCategory(ctx, userID, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		post.CategoryID = category.ID
	}
	if input.Content != nil {
		content, err := s.rewriteInline(ctx, *input.Content)
		if err != nil {
			return nil, err
		}
		post.Content = content
	}

	if input.Texts != nil || input.Images != nil {
		texts := buildTexts(input.Texts)
		for i := range texts {
			if texts[i].Content, err = s.rewriteInline(ctx, texts[i].Content); err != nil {
				return nil, err
			}
		}
		images, err := buildImages(input.Images)
		if err != nil {
			return nil, err
		}
		if input.Texts == nil {
			texts = postTextsCopy(post.Texts)
		}
		if input.Images == nil {
			images = postImagesCopy(post.Images)
		}
		if err := s.posts.ReplaceContent(ctx, post.ID, texts, images); err != nil {
			return nil, err
		}
	}

	// Detach loaded associations so Save only writes the post row.
	post.Texts = nil
	post.Images = nil
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, post.ID)
}

func postTextsCopy(texts []models.PostText) []models.PostText {
	out := make([]models.PostText, len(texts))
	copy(out, texts)
	return out
}

func postImagesCopy(images []models.PostImage) []models.PostImage {
	out := make([]models.PostImage, len(images))
	copy(out, images)
	return out
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewNotFoundError("Post", postID)
	}
	return s.posts.Delete(ctx, postID)
}

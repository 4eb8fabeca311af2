package blogservice

import (
	"context"
	"database/sql"

	"github.com/hanamachi/inkwell/internal/common"
)

func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{m: newBlogModel(db)}
}

type CreateBlogRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featured_image"`
	Published     bool     `json:"published"`
	UserID        int      `json:"user_id"`
}

// CreateBlog creates a new blog post owned by the given user. Published
// defaults to false, so a new post stays out of the public listing until the
// author explicitly publishes it.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	validateTags(v, req.Tags)
	validateFeaturedImage(v, req.FeaturedImage)
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if req.Tags == nil {
		req.Tags = []string{}
	}

	blog := &Blog{
		Title:         req.Title,
		Content:       sanitizeMarkdown(req.Content),
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		Published:     req.Published,
		UserID:        req.UserID,
	}

	err := s.m.insert(ctx, blog)
	if err != nil {
		return nil, err
	}

	return blog, nil
}

// GetBlog returns a blog post by its ID and records the view: the counter is
// incremented before the post is read back, so repeated calls each bump it.
func (s *BlogService) GetBlog(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err := s.m.incrementViews(ctx, id)
	if err != nil {
		return nil, err
	}

	blog, err := s.m.getBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.m.getComments(ctx, id)
	if err != nil {
		return nil, err
	}
	blog.Comments = comments

	return blog, nil
}

// UpdateBlogRequest carries a partial update: nil fields keep their previous
// value, explicitly supplied empty values are applied as given.
type UpdateBlogRequest struct {
	Title         *string   `json:"title"`
	Content       *string   `json:"content"`
	Tags          *[]string `json:"tags"`
	FeaturedImage *string   `json:"featured_image"`
	Published     *bool     `json:"published"`
}

// UpdateBlog applies a partial update. The checks run in a fixed order:
// existence (ErrRecordNotFound), then ownership (ErrNotOwner), then
// validation, so a non-owner probing a missing ID still sees not found.
func (s *BlogService) UpdateBlog(ctx context.Context, id, userID int, req *UpdateBlogRequest) (*Blog, error) {
	blog, err := s.m.getBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanMutate(userID, blog) {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Content != nil {
		blog.Content = sanitizeMarkdown(*req.Content)
	}
	if req.Tags != nil {
		blog.Tags = *req.Tags
	}
	if req.FeaturedImage != nil {
		blog.FeaturedImage = *req.FeaturedImage
	}
	if req.Published != nil {
		blog.Published = *req.Published
	}

	v := common.NewValidator()
	validateTitle(v, blog.Title)
	validateContent(v, blog.Content)
	validateTags(v, blog.Tags)
	validateFeaturedImage(v, blog.FeaturedImage)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err = s.m.updateBlog(ctx, blog)
	if err != nil {
		return nil, err
	}

	return blog, nil
}

// DeleteBlog removes a blog post entirely, comments and likes included. Same
// existence-then-ownership ordering as UpdateBlog.
func (s *BlogService) DeleteBlog(ctx context.Context, id, userID int) error {
	blog, err := s.m.getBlogByID(ctx, id)
	if err != nil {
		return err
	}

	if !CanMutate(userID, blog) {
		return ErrNotOwner
	}

	return s.m.deleteBlog(ctx, id)
}

// ToggleLike flips the user's like on the blog and returns the new state.
// Calling it twice restores the original like set.
func (s *BlogService) ToggleLike(ctx context.Context, blogID, userID int) (*LikeResult, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "id")
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	exists, err := s.m.blogExists(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRecordNotFound
	}

	removed, err := s.m.unlike(ctx, blogID, userID)
	if err != nil {
		return nil, err
	}

	if !removed {
		err = s.m.like(ctx, blogID, userID)
		if err != nil {
			return nil, err
		}
	}

	count, err := s.m.countLikes(ctx, blogID)
	if err != nil {
		return nil, err
	}

	return &LikeResult{IsLiked: !removed, Likes: count}, nil
}

type CreateCommentRequest struct {
	BlogID  int    `json:"blog_id"`
	UserID  int    `json:"user_id"`
	Content string `json:"content"`
}

// AddComment appends a comment to the blog. Any authenticated user may
// comment on any post; comments are never edited or deleted afterwards.
func (s *BlogService) AddComment(ctx context.Context, req *CreateCommentRequest) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, req.BlogID, "id")
	validateInt(v, req.UserID, "user_id")
	validateCommentContent(v, req.Content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	comment := &Comment{
		BlogID:  req.BlogID,
		UserID:  req.UserID,
		Content: sanitizeMarkdown(req.Content),
	}

	err := s.m.insertComment(ctx, comment)
	if err != nil {
		return nil, err
	}

	return comment, nil
}

// ListPublished is the public listing: published posts only, newest first,
// with the optional search/tag/author criteria.
func (s *BlogService) ListPublished(ctx context.Context, filter ListFilter) ([]BlogSummary, Metadata, error) {
	published := true
	filter.Published = &published
	filter.normalize()

	return s.m.listBlogs(ctx, &filter)
}

// ListByAuthor lists one author's posts. Published is applied only when the
// caller supplies it; nil returns drafts and published posts alike.
func (s *BlogService) ListByAuthor(ctx context.Context, authorID int, filter ListFilter) ([]BlogSummary, Metadata, error) {
	v := common.NewValidator()
	validateInt(v, authorID, "user_id")
	if !v.Valid() {
		return nil, Metadata{}, v.ValidationError()
	}

	filter.AuthorID = authorID
	filter.normalize()

	return s.m.listBlogs(ctx, &filter)
}

// AuthorStats aggregates the author's own posts: totals, drafts, views and
// likes.
func (s *BlogService) AuthorStats(ctx context.Context, userID int) (*Stats, error) {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.authorStats(ctx, userID)
}

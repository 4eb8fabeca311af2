package blogservice

import (
	"database/sql"
	"time"
)

type Blog struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	// Content is stored in Markdown format.
	Content       string    `json:"content"`
	Tags          []string  `json:"tags"`
	FeaturedImage string    `json:"featured_image"`
	Published     bool      `json:"published"`
	Views         int       `json:"views"`
	UserID        int       `json:"user_id"`
	Author        string    `json:"author"`
	Likes         int       `json:"likes"`
	Comments      []Comment `json:"comments,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int       `json:"version"`
}

// BlogSummary is the list projection. It deliberately omits the content body
// to bound list payload sizes; the single-blog endpoint returns the full post.
type BlogSummary struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Tags          []string  `json:"tags"`
	FeaturedImage string    `json:"featured_image"`
	Published     bool      `json:"published"`
	Views         int       `json:"views"`
	UserID        int       `json:"user_id"`
	Author        string    `json:"author"`
	Likes         int       `json:"likes"`
	CommentCount  int       `json:"comment_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Comment struct {
	ID        int       `json:"id"`
	BlogID    int       `json:"blog_id"`
	UserID    int       `json:"user_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeResult is the state returned by the like toggle.
type LikeResult struct {
	IsLiked bool `json:"is_liked"`
	Likes   int  `json:"likes"`
}

// Stats aggregates a single author's posts.
type Stats struct {
	TotalBlogs     int `json:"total_blogs"`
	PublishedBlogs int `json:"published_blogs"`
	DraftBlogs     int `json:"draft_blogs"`
	TotalViews     int `json:"total_views"`
	TotalLikes     int `json:"total_likes"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
}

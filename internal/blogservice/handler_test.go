package blogservice

import (
	"context"
	"crypto/rand"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanamachi/inkwell/internal/common"
)

// setupTestUser creates a user row directly; the blog service only needs the
// foreign key to exist.
func setupTestUser(db *sql.DB, username, email string) (int, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO users (username, email, password, activated)
		VALUES ($1, $2, $3, true)
		RETURNING id`

	var id int
	err = db.QueryRow(query, username, email, randomBytes).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func setupTestEnvironment(t *testing.T) (*BlogService, *sql.DB, int) {
	db := common.TestDB("file://../../migrations", t)

	id, err := setupTestUser(db, "testuser", "testuser@example.com")
	require.NoError(t, err)

	return NewBlogService(db), db, id
}

func createTestBlog(t *testing.T, s *BlogService, userID int, title string, published bool) *Blog {
	blog, err := s.CreateBlog(context.Background(), &CreateBlogRequest{
		Title:     title,
		Content:   "This is a test blog.",
		Tags:      []string{"go", "testing"},
		Published: published,
		UserID:    userID,
	})
	require.NoError(t, err)

	return blog
}

func TestCreateBlog(t *testing.T) {
	s, _, userID := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		req         *CreateBlogRequest
		expectedErr error
	}{
		{
			name: "valid blog",
			req: &CreateBlogRequest{
				Title:   "Test Blog",
				Content: "This is a test blog.",
				UserID:  userID,
			},
		},
		{
			name: "empty title",
			req: &CreateBlogRequest{
				Title:   "",
				Content: "This is a test blog.",
				UserID:  userID,
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
		{
			name: "empty content",
			req: &CreateBlogRequest{
				Title:   "Test Blog",
				Content: "",
				UserID:  userID,
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"content": "must be provided"}},
		},
		{
			name: "missing user ID",
			req: &CreateBlogRequest{
				Title:   "Test Blog",
				Content: "This is a test blog.",
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"user_id": "must be greater than zero"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			blog, err := s.CreateBlog(context.Background(), tc.req)

			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr, err)
				return
			}

			assert.NoError(t, err)
			assert.NotZero(t, blog.ID)
			assert.False(t, blog.Published)
			assert.Equal(t, 0, blog.Views)
		})
	}
}

func TestGetBlogIncrementsViews(t *testing.T) {
	s, _, userID := setupTestEnvironment(t)

	created := createTestBlog(t, s, userID, "View Counter", true)

	first, err := s.GetBlog(context.Background(), created.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, first.Views)

	second, err := s.GetBlog(context.Background(), created.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, second.Views)

	assert.Equal(t, "testuser", second.Author)
	assert.Equal(t, []string{"go", "testing"}, second.Tags)
}

func TestGetBlogNotFound(t *testing.T) {
	s, _, _ := setupTestEnvironment(t)

	_, err := s.GetBlog(context.Background(), 99999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func strptr(s string) *string {
	return &s
}

func TestUpdateBlog(t *testing.T) {
	s, db, userID := setupTestEnvironment(t)

	otherID, err := setupTestUser(db, "otheruser", "otheruser@example.com")
	require.NoError(t, err)

	created := createTestBlog(t, s, userID, "Original Title", false)

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		published := true
		updated, err := s.UpdateBlog(context.Background(), created.ID, userID, &UpdateBlogRequest{
			Published: &published,
		})
		assert.NoError(t, err)
		assert.Equal(t, "Original Title", updated.Title)
		assert.Equal(t, "This is a test blog.", updated.Content)
		assert.True(t, updated.Published)
		assert.Greater(t, updated.Version, created.Version)
	})

	t.Run("explicit empty tags applied", func(t *testing.T) {
		tags := []string{}
		updated, err := s.UpdateBlog(context.Background(), created.ID, userID, &UpdateBlogRequest{
			Tags: &tags,
		})
		assert.NoError(t, err)
		assert.Empty(t, updated.Tags)
	})

	t.Run("not owner", func(t *testing.T) {
		_, err := s.UpdateBlog(context.Background(), created.ID, otherID, &UpdateBlogRequest{
			Title: strptr("Hijacked"),
		})
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("not found beats not owner", func(t *testing.T) {
		_, err := s.UpdateBlog(context.Background(), 99999, otherID, &UpdateBlogRequest{
			Title: strptr("Hijacked"),
		})
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("invalid update rejected", func(t *testing.T) {
		_, err := s.UpdateBlog(context.Background(), created.ID, userID, &UpdateBlogRequest{
			Title: strptr(""),
		})
		assert.ErrorAs(t, err, &common.ValidationError{})
	})
}

func TestDeleteBlog(t *testing.T) {
	s, db, userID := setupTestEnvironment(t)

	otherID, err := setupTestUser(db, "otheruser", "otheruser@example.com")
	require.NoError(t, err)

	created := createTestBlog(t, s, userID, "Doomed", true)

	_, err = s.AddComment(context.Background(), &CreateCommentRequest{
		BlogID:  created.ID,
		UserID:  otherID,
		Content: "will be cascaded",
	})
	require.NoError(t, err)

	err = s.DeleteBlog(context.Background(), created.ID, otherID)
	assert.ErrorIs(t, err, ErrNotOwner)

	err = s.DeleteBlog(context.Background(), 99999, userID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	err = s.DeleteBlog(context.Background(), created.ID, userID)
	assert.NoError(t, err)

	_, err = s.GetBlog(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	// comments cascade with the blog
	var count int
	err = db.QueryRow("SELECT count(*) FROM comments WHERE blog_id = $1", created.ID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestToggleLike(t *testing.T) {
	s, db, userID := setupTestEnvironment(t)

	otherID, err := setupTestUser(db, "otheruser", "otheruser@example.com")
	require.NoError(t, err)

	created := createTestBlog(t, s, userID, "Likeable", true)

	result, err := s.ToggleLike(context.Background(), created.ID, otherID)
	assert.NoError(t, err)
	assert.True(t, result.IsLiked)
	assert.Equal(t, 1, result.Likes)

	result, err = s.ToggleLike(context.Background(), created.ID, userID)
	assert.NoError(t, err)
	assert.True(t, result.IsLiked)
	assert.Equal(t, 2, result.Likes)

	// toggling twice restores the original state
	result, err = s.ToggleLike(context.Background(), created.ID, otherID)
	assert.NoError(t, err)
	assert.False(t, result.IsLiked)
	assert.Equal(t, 1, result.Likes)

	_, err = s.ToggleLike(context.Background(), 99999, userID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestAddComment(t *testing.T) {
	s, _, userID := setupTestEnvironment(t)

	created := createTestBlog(t, s, userID, "Commented", true)

	comment, err := s.AddComment(context.Background(), &CreateCommentRequest{
		BlogID:  created.ID,
		UserID:  userID,
		Content: "First!",
	})
	assert.NoError(t, err)
	assert.NotZero(t, comment.ID)
	assert.Equal(t, "testuser", comment.Author)
	assert.Equal(t, "First!", comment.Content)

	_, err = s.AddComment(context.Background(), &CreateCommentRequest{
		BlogID:  99999,
		UserID:  userID,
		Content: "into the void",
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = s.AddComment(context.Background(), &CreateCommentRequest{
		BlogID:  created.ID,
		UserID:  userID,
		Content: "",
	})
	assert.ErrorAs(t, err, &common.ValidationError{})

	blog, err := s.GetBlog(context.Background(), created.ID)
	assert.NoError(t, err)
	assert.Len(t, blog.Comments, 1)
}

func TestListPublished(t *testing.T) {
	s, _, userID := setupTestEnvironment(t)

	createTestBlog(t, s, userID, "Draft Post", false)
	for i := 0; i < 15; i++ {
		createTestBlog(t, s, userID, "Published Post", true)
	}

	t.Run("drafts excluded", func(t *testing.T) {
		_, metadata, err := s.ListPublished(context.Background(), ListFilter{})
		assert.NoError(t, err)
		assert.Equal(t, 15, metadata.Total)
	})

	t.Run("pages do not overlap", func(t *testing.T) {
		page1, meta1, err := s.ListPublished(context.Background(), ListFilter{Page: 1, Limit: 10})
		assert.NoError(t, err)
		assert.Len(t, page1, 10)
		assert.True(t, meta1.HasNext)
		assert.False(t, meta1.HasPrev)

		page2, meta2, err := s.ListPublished(context.Background(), ListFilter{Page: 2, Limit: 10})
		assert.NoError(t, err)
		assert.Len(t, page2, 5)
		assert.False(t, meta2.HasNext)
		assert.True(t, meta2.HasPrev)

		seen := make(map[int]bool)
		for _, b := range page1 {
			seen[b.ID] = true
		}
		for _, b := range page2 {
			assert.False(t, seen[b.ID], "blog %d returned on both pages", b.ID)
		}
	})

	t.Run("newest first", func(t *testing.T) {
		blogs, _, err := s.ListPublished(context.Background(), ListFilter{Limit: 100})
		assert.NoError(t, err)
		for i := 1; i < len(blogs); i++ {
			assert.False(t, blogs[i].CreatedAt.After(blogs[i-1].CreatedAt))
		}
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		blogs, _, err := s.ListPublished(context.Background(), ListFilter{Search: "PUBLISHED", Limit: 100})
		assert.NoError(t, err)
		assert.Len(t, blogs, 15)
	})

	t.Run("tag filter", func(t *testing.T) {
		blogs, _, err := s.ListPublished(context.Background(), ListFilter{Tag: "GO", Limit: 100})
		assert.NoError(t, err)
		assert.Len(t, blogs, 15)

		blogs, _, err = s.ListPublished(context.Background(), ListFilter{Tag: "rust", Limit: 100})
		assert.NoError(t, err)
		assert.Empty(t, blogs)
	})

	t.Run("summary fields populated", func(t *testing.T) {
		blogs, _, err := s.ListPublished(context.Background(), ListFilter{Limit: 1})
		assert.NoError(t, err)
		assert.Len(t, blogs, 1)
		assert.Equal(t, "testuser", blogs[0].Author)
		assert.Equal(t, []string{"go", "testing"}, blogs[0].Tags)
		assert.True(t, blogs[0].Published)
	})
}

func TestListByAuthor(t *testing.T) {
	s, db, userID := setupTestEnvironment(t)

	otherID, err := setupTestUser(db, "otheruser", "otheruser@example.com")
	require.NoError(t, err)

	createTestBlog(t, s, userID, "Mine Draft", false)
	createTestBlog(t, s, userID, "Mine Published", true)
	createTestBlog(t, s, otherID, "Theirs", true)

	t.Run("all of mine when published unset", func(t *testing.T) {
		_, metadata, err := s.ListByAuthor(context.Background(), userID, ListFilter{})
		assert.NoError(t, err)
		assert.Equal(t, 2, metadata.Total)
	})

	t.Run("published flag filters", func(t *testing.T) {
		published := false
		blogs, _, err := s.ListByAuthor(context.Background(), userID, ListFilter{Published: &published})
		assert.NoError(t, err)
		assert.Len(t, blogs, 1)
		assert.Equal(t, "Mine Draft", blogs[0].Title)
	})
}

func TestAuthorStats(t *testing.T) {
	s, db, userID := setupTestEnvironment(t)

	otherID, err := setupTestUser(db, "otheruser", "otheruser@example.com")
	require.NoError(t, err)

	draft := createTestBlog(t, s, userID, "Draft", false)
	published := createTestBlog(t, s, userID, "Published", true)
	createTestBlog(t, s, otherID, "Not Counted", true)

	// two views on the published post, one on the draft
	_, err = s.GetBlog(context.Background(), published.ID)
	require.NoError(t, err)
	_, err = s.GetBlog(context.Background(), published.ID)
	require.NoError(t, err)
	_, err = s.GetBlog(context.Background(), draft.ID)
	require.NoError(t, err)

	_, err = s.ToggleLike(context.Background(), published.ID, otherID)
	require.NoError(t, err)

	stats, err := s.AuthorStats(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, &Stats{
		TotalBlogs:     2,
		PublishedBlogs: 1,
		DraftBlogs:     1,
		TotalViews:     3,
		TotalLikes:     1,
	}, stats)
}

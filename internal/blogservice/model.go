package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hanamachi/inkwell/internal/common"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrUserForeignKey = errors.New("user_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

func (m *BlogModel) insert(ctx context.Context, blog *Blog) error {
	query := `
		INSERT INTO blogs (title, content, tags, featured_image, published, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, views, created_at, updated_at, version`

	args := []any{
		blog.Title,
		blog.Content,
		pq.Array(blog.Tags),
		blog.FeaturedImage,
		blog.Published,
		blog.UserID,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.ID, &blog.Views, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

// getBlogByID loads the full blog, joining users for the author name and
// counting likes. Comments are loaded separately.
func (m *BlogModel) getBlogByID(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT b.id, b.title, b.content, b.tags, b.featured_image, b.published, b.views, b.user_id, u.username,
			(SELECT count(*) FROM blog_likes l WHERE l.blog_id = b.id),
			b.created_at, b.updated_at, b.version
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		WHERE b.id = $1`

	row := m.db.QueryRowContext(ctx, query, id)

	var blog Blog
	err := row.Scan(&blog.ID, &blog.Title, &blog.Content, pq.Array(&blog.Tags), &blog.FeaturedImage, &blog.Published, &blog.Views, &blog.UserID, &blog.Author, &blog.Likes, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

// incrementViews bumps the view counter atomically in the store; concurrent
// reads of the same blog never lose an increment.
func (m *BlogModel) incrementViews(ctx context.Context, id int) error {
	query := `
		UPDATE blogs
		SET views = views + 1
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (m *BlogModel) updateBlog(ctx context.Context, blog *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, content = $2, tags = $3, featured_image = $4, published = $5, updated_at = now(), version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING updated_at, version`

	args := []any{
		blog.Title,
		blog.Content,
		pq.Array(blog.Tags),
		blog.FeaturedImage,
		blog.Published,
		blog.ID,
		blog.Version,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.UpdatedAt, &blog.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

// deleteBlog removes the blog entirely; likes and comments go with it via
// the cascading foreign keys.
func (m *BlogModel) deleteBlog(ctx context.Context, id int) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

// listBlogs runs the page query and the count query over the identical
// filter. The two reads are not a snapshot; a concurrent write may skew the
// total against the page contents.
func (m *BlogModel) listBlogs(ctx context.Context, filter *ListFilter) ([]BlogSummary, Metadata, error) {
	where, args := filter.where()

	countQuery := fmt.Sprintf(`
		SELECT count(*)
		FROM blogs b
		%s`, where)

	var total int
	err := m.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, Metadata{}, err
	}

	pageQuery := fmt.Sprintf(`
		SELECT b.id, b.title, b.tags, b.featured_image, b.published, b.views, b.user_id, u.username,
			(SELECT count(*) FROM blog_likes l WHERE l.blog_id = b.id),
			(SELECT count(*) FROM comments c WHERE c.blog_id = b.id),
			b.created_at, b.updated_at
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		%s
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	args = append(args, filter.Limit, filter.offset())

	rows, err := m.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	blogs := []BlogSummary{}
	for rows.Next() {
		var blog BlogSummary
		err := rows.Scan(&blog.ID, &blog.Title, pq.Array(&blog.Tags), &blog.FeaturedImage, &blog.Published, &blog.Views, &blog.UserID, &blog.Author, &blog.Likes, &blog.CommentCount, &blog.CreatedAt, &blog.UpdatedAt)
		if err != nil {
			return nil, Metadata{}, err
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	return blogs, calculateMetadata(total, filter.Page, filter.Limit), nil
}

func (m *BlogModel) getComments(ctx context.Context, blogID int) ([]Comment, error) {
	query := `
		SELECT c.id, c.blog_id, c.user_id, u.username, c.content, c.created_at
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.blog_id = $1
		ORDER BY c.created_at ASC, c.id ASC`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		err := rows.Scan(&c.ID, &c.BlogID, &c.UserID, &c.Author, &c.Content, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (m *BlogModel) insertComment(ctx context.Context, comment *Comment) error {
	query := `
		WITH inserted AS (
			INSERT INTO comments (blog_id, user_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, created_at
		)
		SELECT i.id, u.username, i.created_at
		FROM inserted i
		JOIN users u ON i.user_id = u.id`

	err := m.db.QueryRowContext(ctx, query, comment.BlogID, comment.UserID, comment.Content).Scan(&comment.ID, &comment.Author, &comment.CreatedAt)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "comments_blog_id_fkey"):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) blogExists(ctx context.Context, id int) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM blogs WHERE id = $1)`

	err := m.db.QueryRowContext(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// unlike removes the user's like; it reports whether a like was present.
func (m *BlogModel) unlike(ctx context.Context, blogID, userID int) (bool, error) {
	query := `
		DELETE FROM blog_likes
		WHERE blog_id = $1 AND user_id = $2`

	res, err := m.db.ExecContext(ctx, query, blogID, userID)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

// like records the user's like. The primary key on (blog_id, user_id) keeps
// the like set free of duplicates even under concurrent toggles.
func (m *BlogModel) like(ctx context.Context, blogID, userID int) error {
	query := `
		INSERT INTO blog_likes (blog_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (blog_id, user_id) DO NOTHING`

	_, err := m.db.ExecContext(ctx, query, blogID, userID)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "blog_likes_blog_id_fkey"):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) countLikes(ctx context.Context, blogID int) (int, error) {
	var count int

	query := `SELECT count(*) FROM blog_likes WHERE blog_id = $1`

	err := m.db.QueryRowContext(ctx, query, blogID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// authorStats aggregates the author's posts: totals, published count, view
// and like sums. Read-only, no side effects.
func (m *BlogModel) authorStats(ctx context.Context, userID int) (*Stats, error) {
	query := `
		SELECT count(*),
			count(*) FILTER (WHERE published),
			COALESCE(SUM(views), 0),
			(SELECT count(*) FROM blog_likes l JOIN blogs owned ON l.blog_id = owned.id WHERE owned.user_id = $1)
		FROM blogs b
		WHERE b.user_id = $1`

	var stats Stats
	err := m.db.QueryRowContext(ctx, query, userID).Scan(&stats.TotalBlogs, &stats.PublishedBlogs, &stats.TotalViews, &stats.TotalLikes)
	if err != nil {
		return nil, err
	}

	stats.DraftBlogs = stats.TotalBlogs - stats.PublishedBlogs

	return &stats, nil
}

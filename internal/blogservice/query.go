package blogservice

import (
	"fmt"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListFilter describes a list query: pagination window plus the optional
// search/tag/author/published criteria. The zero value of an optional field
// means "not filtered".
type ListFilter struct {
	Page   int
	Limit  int
	Search string
	Tag    string
	// AuthorID restricts the listing to one author; zero means any.
	AuthorID int
	// Published is a tri-state: nil means drafts and published alike.
	Published *bool
}

func (f *ListFilter) normalize() {
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
}

func (f *ListFilter) offset() int {
	return (f.Page - 1) * f.Limit
}

// where renders the filter as a WHERE clause over blogs b. The same clause is
// used by both the page query and the count query so the two always agree on
// the criteria, if not on a snapshot.
func (f *ListFilter) where() (string, []any) {
	var conditions []string
	var args []any

	if f.Published != nil {
		args = append(args, *f.Published)
		conditions = append(conditions, fmt.Sprintf("b.published = $%d", len(args)))
	}

	if f.AuthorID > 0 {
		args = append(args, f.AuthorID)
		conditions = append(conditions, fmt.Sprintf("b.user_id = $%d", len(args)))
	}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(b.title ILIKE $%d OR b.content ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(b.tags) tag WHERE tag ILIKE $%d))", n, n, n))
	}

	if f.Tag != "" {
		args = append(args, f.Tag)
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(b.tags) tag WHERE tag ILIKE $%d)", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// Metadata describes the page window of a list response. Total comes from a
// count query over the same filter as the page itself.
type Metadata struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

func calculateMetadata(total, page, limit int) Metadata {
	totalPages := (total + limit - 1) / limit

	return Metadata{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

package projections

import (
	"context"
	"fmt"

	"lms/internal/domain/course"
)

// Catalog messages
const (
	MsgCatalogLogin   = "Please log in to view courses."
	MsgCatalogFailed  = "Failed to fetch courses"
	MsgCatalogTrouble = "An error occurred. Please try again."
)

// GetCatalogQuery carries query parameters.
type GetCatalogQuery struct {
	Token string
}

// GetCatalogResult carries the query result.
type GetCatalogResult struct {
	Courses []course.Course
}

// GetCatalogDeps holds dependencies for GetCatalog.
type GetCatalogDeps struct {
	Courses CourseReader
}

// QueryGetCatalog lists every course visible to the token.
// PRE: Token is non-empty
// POST: Courses is never nil on success
func QueryGetCatalog(ctx context.Context, query GetCatalogQuery, deps GetCatalogDeps) (GetCatalogResult, error) {
	list, err := deps.Courses.ListCourses(ctx, query.Token)
	if err != nil {
		return GetCatalogResult{}, fmt.Errorf("list courses: %w", err)
	}
	if list == nil {
		list = []course.Course{}
	}
	return GetCatalogResult{Courses: list}, nil
}

package projections

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"lms/internal/application/listutil"
	"lms/internal/domain/course"
	"lms/internal/domain/user"
)

// MsgUsersFailed is shown when the user listing cannot be loaded.
const MsgUsersFailed = "Failed to load users."

// UserSortColumns are the sortable columns of the user table.
var UserSortColumns = []string{"username", "email", "role"}

// GetUserListQuery carries query parameters.
type GetUserListQuery struct {
	Token  string
	Viewer user.User
	List   listutil.ListParams
}

// GetUserListResult carries the query result.
type GetUserListResult struct {
	Users []user.User // current page only
	Page  listutil.PageInfo
	List  listutil.ListParams
}

// GetUserListDeps holds dependencies for GetUserList.
type GetUserListDeps struct {
	Users UserReader
}

// QueryGetUserList lists accounts for the admin table, filtered, sorted and paged in memory.
// PRE: Viewer is the signed-in user
// POST: Returns course.ErrNotInstructor without calling the API for non-instructors
// POST: Without a sort column the API's order is kept
func QueryGetUserList(ctx context.Context, query GetUserListQuery, deps GetUserListDeps) (GetUserListResult, error) {
	if !query.Viewer.IsInstructor() {
		return GetUserListResult{}, course.ErrNotInstructor
	}
	params := query.List
	if params.PerPage == 0 {
		params = listutil.ParseListParams(nil, UserSortColumns)
	}
	list, err := deps.Users.ListUsers(ctx, query.Token)
	if err != nil {
		return GetUserListResult{List: params, Page: listutil.NewPageInfo(1, params.PerPage, 0)}, fmt.Errorf("list users: %w", err)
	}

	matched := make([]user.User, 0, len(list))
	for _, u := range list {
		if listutil.Matches(params.Search, u.Username, u.Email, u.Role) {
			matched = append(matched, u)
		}
	}
	if key := userSortKey(params.Sort); key != nil {
		slices.SortStableFunc(matched, func(a, b user.User) int {
			c := cmp.Compare(key(a), key(b))
			if params.Dir == listutil.DirDesc {
				return -c
			}
			return c
		})
	}

	page := listutil.NewPageInfo(params.Page, params.PerPage, len(matched))
	params.Page = page.Page
	return GetUserListResult{
		Users: listutil.Window(matched, page),
		Page:  page,
		List:  params,
	}, nil
}

func userSortKey(col string) func(user.User) string {
	switch col {
	case "username":
		return func(u user.User) string { return u.Username }
	case "email":
		return func(u user.User) string { return u.Email }
	case "role":
		return func(u user.User) string { return u.Role }
	}
	return nil
}

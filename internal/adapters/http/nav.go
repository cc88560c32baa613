package web

import "lms/internal/domain/user"

// NavLink is one entry of the navigation bar.
type NavLink struct {
	Label string
	Href  string
}

// NavLinks returns the navigation entries for profile (nil when anonymous).
// Logout is a form and not part of the list.
// POST: anonymous visitors get only Login; instructors get the authoring and admin entries
func NavLinks(profile *user.User) []NavLink {
	if profile == nil {
		return []NavLink{{Label: "Login", Href: "/login"}}
	}
	links := []NavLink{
		{Label: "Dashboard", Href: "/dashboard"},
		{Label: "Courses", Href: "/courses"},
		{Label: "Upload", Href: "/upload"},
	}
	if profile.IsInstructor() {
		links = append(links,
			NavLink{Label: "Create Course", Href: "/courses/create"},
			NavLink{Label: "User Management", Href: "/admin/users"},
			NavLink{Label: "Performance", Href: "/admin/perf"},
		)
	}
	return links
}

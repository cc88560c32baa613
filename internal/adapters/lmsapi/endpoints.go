package lmsapi

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"lms/internal/domain/course"
	"lms/internal/domain/enrollment"
	"lms/internal/domain/user"
)

// Credentials is the body of POST /login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out loginResponse
	err := c.do(ctx, call{
		method: http.MethodPost, route: "login", path: "login",
		body: Credentials{Email: email, Password: password}, out: &out,
	})
	return out.Token, err
}

// GetUser fetches one user profile.
func (c *Client) GetUser(ctx context.Context, token, id string) (user.User, error) {
	var out user.User
	err := c.do(ctx, call{
		method: http.MethodGet, route: "users/:id", path: "users/" + url.PathEscape(id),
		token: token, out: &out,
	})
	return out, err
}

// ListUsers fetches every user (instructors only on the server side).
func (c *Client) ListUsers(ctx context.Context, token string) ([]user.User, error) {
	var out []user.User
	err := c.do(ctx, call{
		method: http.MethodGet, route: "users/", path: "users/",
		token: token, out: &out,
	})
	return out, err
}

// ListCourses fetches the course catalog.
func (c *Client) ListCourses(ctx context.Context, token string) ([]course.Course, error) {
	var out []course.Course
	err := c.do(ctx, call{
		method: http.MethodGet, route: "courses/", path: "courses/",
		token: token, out: &out,
	})
	return out, err
}

// GetCourse fetches one course with its lesson tree.
func (c *Client) GetCourse(ctx context.Context, token, id string) (course.Course, error) {
	var out course.Course
	err := c.do(ctx, call{
		method: http.MethodGet, route: "courses/:id", path: "courses/" + url.PathEscape(id),
		token: token, out: &out,
	})
	return out, err
}

// CreateCourse submits a new course.
func (c *Client) CreateCourse(ctx context.Context, token string, p course.Payload) error {
	return c.do(ctx, call{
		method: http.MethodPost, route: "courses/", path: "courses/",
		token: token, body: p,
	})
}

// UpdateCourse replaces a course's title, description and lesson tree.
func (c *Client) UpdateCourse(ctx context.Context, token, id string, p course.Payload) error {
	return c.do(ctx, call{
		method: http.MethodPut, route: "courses/:id/", path: "courses/" + url.PathEscape(id) + "/",
		token: token, body: p,
	})
}

// DeleteCourse removes a course.
func (c *Client) DeleteCourse(ctx context.Context, token, id string) error {
	return c.do(ctx, call{
		method: http.MethodDelete, route: "courses/:id/", path: "courses/" + url.PathEscape(id) + "/",
		token: token,
	})
}

// ListCourseEnrollments fetches the enrollments of one course.
func (c *Client) ListCourseEnrollments(ctx context.Context, token, courseID string) ([]enrollment.Enrollment, error) {
	var out []enrollment.Enrollment
	err := c.do(ctx, call{
		method: http.MethodGet, route: "courses/:id/enrollments/", path: "courses/" + url.PathEscape(courseID) + "/enrollments/",
		token: token, out: &out,
	})
	return out, err
}

// ListUserEnrollments fetches the enrollments of one student.
func (c *Client) ListUserEnrollments(ctx context.Context, token, userID string) ([]enrollment.Enrollment, error) {
	var out []enrollment.Enrollment
	err := c.do(ctx, call{
		method: http.MethodGet, route: "users/:id/enrollments/", path: "users/" + url.PathEscape(userID) + "/enrollments/",
		token: token, out: &out,
	})
	return out, err
}

// Enroll enrolls the token's user in a course.
func (c *Client) Enroll(ctx context.Context, token, courseID string) error {
	return c.do(ctx, call{
		method: http.MethodPost, route: "enrollments/", path: "enrollments/",
		token: token, body: enrollment.Request{CourseID: courseID},
	})
}

// Upload forwards a media file as multipart field "media" and returns its hosted URL.
func (c *Client) Upload(ctx context.Context, token, filename string, r io.Reader) (string, error) {
	var out uploadResponse
	err := c.do(ctx, call{
		method: http.MethodPost, route: "upload/", path: "upload/",
		token: token, file: &upload{field: "media", filename: filename, r: r}, out: &out,
	})
	return out.URL, err
}

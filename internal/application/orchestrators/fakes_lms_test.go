package orchestrators

import (
	"context"
	"io"

	"lms/internal/domain/course"
)

// fakeLMS records the API calls the orchestrators make.
type fakeLMS struct {
	err error

	created  []course.Payload
	updated  map[string]course.Payload
	deleted  []string
	enrolled []string
	uploaded []byte
	filename string
}

func newFakeLMS() *fakeLMS {
	return &fakeLMS{updated: map[string]course.Payload{}}
}

func (f *fakeLMS) CreateCourse(_ context.Context, _ string, p course.Payload) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, p)
	return nil
}

func (f *fakeLMS) UpdateCourse(_ context.Context, _ string, id string, p course.Payload) error {
	if f.err != nil {
		return f.err
	}
	f.updated[id] = p
	return nil
}

func (f *fakeLMS) DeleteCourse(_ context.Context, _ string, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLMS) Enroll(_ context.Context, _ string, courseID string) error {
	if f.err != nil {
		return f.err
	}
	f.enrolled = append(f.enrolled, courseID)
	return nil
}

func (f *fakeLMS) Upload(_ context.Context, _ string, filename string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.uploaded = data
	f.filename = filename
	return "https://cdn.test/" + filename, nil
}

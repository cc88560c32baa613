package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"lms/internal/adapters/lmsapi"
)

// Upload messages
const (
	MsgUploaded       = "File uploaded successfully!"
	MsgUploadFailed   = "File upload failed"
	MsgUploadTrouble  = "An error occurred. Please try again."
	MsgNoFile         = "Please select a file to upload."
	MsgUploadLoggedIn = "You must be logged in to upload a file."
	MsgNotVideo       = "Please select a video file."
)

// Upload errors
var (
	ErrNoFile          = errors.New("no file selected")
	ErrUploadAnonymous = errors.New("upload requires a signed-in user")
	ErrNotVideo        = errors.New("file is not a video")
)

// sniffLen is how much of the file is read to detect its type.
const sniffLen = 3072

// MediaUploader defines the API call needed by UploadMedia.
type MediaUploader interface {
	Upload(ctx context.Context, token, filename string, r io.Reader) (string, error)
}

// UploadMediaInput carries input for the upload orchestrator.
type UploadMediaInput struct {
	Token    string
	Filename string
	File     io.Reader // nil when no file was chosen
}

// UploadMediaResult carries the hosted URL of the uploaded file.
type UploadMediaResult struct {
	URL      string
	MIMEType string
}

// UploadMediaDeps holds dependencies for UploadMedia.
type UploadMediaDeps struct {
	Uploader MediaUploader
}

// ExecuteUploadMedia checks that a video was chosen and forwards it to the API.
// PRE: none
// POST: Only video content reaches the API; the full file is forwarded unchanged
func ExecuteUploadMedia(ctx context.Context, input UploadMediaInput, deps UploadMediaDeps) (UploadMediaResult, error) {
	if input.File == nil {
		return UploadMediaResult{}, ErrNoFile
	}
	if input.Token == "" {
		return UploadMediaResult{}, ErrUploadAnonymous
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(input.File, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return UploadMediaResult{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return UploadMediaResult{}, ErrNoFile
	}

	mt := mimetype.Detect(head)
	if !isVideo(mt) {
		slog.Info("upload_event", "event", "rejected", "filename", input.Filename, "mime", mt.String())
		return UploadMediaResult{}, ErrNotVideo
	}

	url, err := deps.Uploader.Upload(ctx, input.Token, input.Filename, io.MultiReader(bytes.NewReader(head), input.File))
	if err != nil {
		return UploadMediaResult{}, fmt.Errorf("upload %s: %w", input.Filename, err)
	}
	slog.Info("upload_event", "event", "uploaded", "filename", input.Filename, "mime", mt.String())
	return UploadMediaResult{URL: url, MIMEType: mt.String()}, nil
}

func isVideo(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "video/") {
			return true
		}
	}
	return false
}

// UploadMessage maps the outcome of ExecuteUploadMedia to the text shown on the page.
func UploadMessage(err error) string {
	switch {
	case err == nil:
		return MsgUploaded
	case errors.Is(err, ErrNoFile):
		return MsgNoFile
	case errors.Is(err, ErrUploadAnonymous):
		return MsgUploadLoggedIn
	case errors.Is(err, ErrNotVideo):
		return MsgNotVideo
	case lmsapi.IsTransport(err):
		return MsgUploadTrouble
	default:
		return lmsapi.MessageOr(err, MsgUploadFailed)
	}
}

package web

import (
	"errors"
	"log/slog"
	"net/http"

	"lms/internal/application/orchestrators"
)

// maxUploadBytes caps the request body of POST /upload.
const maxUploadBytes = 512 << 20

// multipartMemory is how much of a multipart body is held in memory before spilling to disk.
const multipartMemory = 32 << 20

// handleUpload handles GET (form) and POST (forward the file) for /upload
func handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "upload.html", map[string]any{})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			renderTemplateStatus(w, r, http.StatusRequestEntityTooLarge, "upload.html", map[string]any{
				"Error": "File is too large.",
			})
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
	}
	defer func() {
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}()

	input := orchestrators.UploadMediaInput{Token: viewer(r).Token}
	if file, header, err := r.FormFile("media"); err == nil {
		defer file.Close()
		input.File = file
		input.Filename = header.Filename
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		slog.Warn("upload_form", "error", err.Error())
	}

	result, err := orchestrators.ExecuteUploadMedia(r.Context(), input, orchestrators.UploadMediaDeps{Uploader: api})
	if err != nil {
		noteAPIError(r, input.Token, err)
		status := http.StatusBadGateway
		if errors.Is(err, orchestrators.ErrNoFile) || errors.Is(err, orchestrators.ErrNotVideo) || errors.Is(err, orchestrators.ErrUploadAnonymous) {
			status = http.StatusBadRequest
		}
		renderTemplateStatus(w, r, status, "upload.html", map[string]any{"Error": orchestrators.UploadMessage(err)})
		return
	}
	renderTemplate(w, r, "upload.html", map[string]any{
		"Message": orchestrators.UploadMessage(nil),
		"URL":     result.URL,
	})
}

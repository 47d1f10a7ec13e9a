package core

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Upload is a file received from a client, held in memory until persisted.
type Upload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}

// allowedUploadTypes is the single upload policy for the whole app:
// supporting documents, proof of payment and profile images alike.
var allowedUploadTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
}

var errNoContent = errors.New("empty file")

func (u Upload) Size() int64 { return int64(len(u.Content)) }

// Sniff fills in ContentType from the file content when the client did not provide one.
func (u *Upload) Sniff() {
	if u.ContentType == "" && len(u.Content) > 0 {
		u.ContentType = http.DetectContentType(u.Content)
	}
}

// ValidateUpload enforces the app-wide upload policy: a known document/image
// MIME type and the configured size ceiling (5 MB by default).
func ValidateUpload(u *Upload, field string) error {
	if u == nil || len(u.Content) == 0 {
		return NewValidationError(errNoContent, FieldError{Field: field, Error: errNoContent.Error()})
	}
	if u.Size() > Conf.MaxUploadSize {
		msg := fmt.Sprintf("file exceeds the maximum allowed size of %d MB", Conf.MaxUploadSize>>20)
		return NewValidationError(errors.New(msg), FieldError{Field: field, Error: msg})
	}

	u.Sniff()
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(u.ContentType, ";", 2)[0]))
	if _, ok := allowedUploadTypes[ct]; !ok {
		msg := fmt.Sprintf("unsupported file type %q; only PDF, JPEG and PNG files are accepted", ct)
		return NewValidationError(errors.New(msg), FieldError{Field: field, Error: msg})
	}
	return nil
}

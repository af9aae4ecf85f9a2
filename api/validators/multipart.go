package validators

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/atelierhq/sewtrack-backend/pkg/errors"
)

// ParseMultipart reads a multipart form, capping the in-memory portion at
// maxUploadMB. Station submissions carry their files this way.
func ParseMultipart(r *http.Request, maxUploadMB int) error {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	limit := int64(maxUploadMB) << 20
	r.Body = http.MaxBytesReader(nil, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	return nil
}

// FormValue returns the trimmed value of a form field.
func FormValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// FormBool parses a checkbox-style form field; absent means false.
func FormBool(r *http.Request, name string) bool {
	value := FormValue(r, name)
	if value == "" {
		return false
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return strings.EqualFold(value, "on")
	}
	return parsed
}

// FormFile opens the named upload. The caller owns the returned file.
// A missing file is reported as (nil, "", nil).
func FormFile(r *http.Request, name string) (multipart.File, string, error) {
	file, header, err := r.FormFile(name)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, "", nil
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read uploaded file")
	}
	return file, header.Filename, nil
}

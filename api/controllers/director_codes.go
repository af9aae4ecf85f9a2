package controllers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/api/responses"
	"github.com/atelierhq/sewtrack-backend/api/validators"
	"github.com/atelierhq/sewtrack-backend/internal/codes"
	"github.com/atelierhq/sewtrack-backend/internal/products"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/sewtrack-backend/pkg/errors"
	"github.com/atelierhq/sewtrack-backend/pkg/logger"
)

// DirectorCodeAttach uploads a code sheet for a garment: internal_code,
// kind, code plus the sheet file. Replaces any prior sheet of the kind.
func DirectorCodeAttach(sheets codes.Store, productRepo products.Repository, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sheets == nil || productRepo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "code store unavailable"))
			return
		}

		if err := validators.ParseMultipart(r, maxUploadMB); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseCodeKind(strings.ToLower(validators.FormValue(r, "kind")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid code kind"))
			return
		}

		product, err := productRepo.FindByCode(r.Context(), validators.FormValue(r, "internal_code"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "garment not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup garment"))
			return
		}

		file, fileName, err := validators.FormFile(r, "file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if file != nil {
			defer file.Close()
		}

		input := codes.AttachInput{
			ProductID: product.ID,
			Kind:      kind,
			Code:      validators.FormValue(r, "code"),
			FileName:  fileName,
		}
		if file != nil {
			input.File = file
		}

		attached, err := sheets.Attach(r.Context(), nil, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, attached)
	}
}

// DirectorCodeRemove deletes one attachment and releases its sheet file.
func DirectorCodeRemove(sheets codes.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sheets == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "code store unavailable"))
			return
		}

		id, err := pathID(r, "codeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sheets.Remove(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

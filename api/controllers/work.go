package controllers

import (
	"net/http"

	"github.com/atelierhq/sewtrack-backend/api/middleware"
	"github.com/atelierhq/sewtrack-backend/api/responses"
	"github.com/atelierhq/sewtrack-backend/api/validators"
	"github.com/atelierhq/sewtrack-backend/internal/statements"
	"github.com/atelierhq/sewtrack-backend/internal/workflow"
	pkgerrors "github.com/atelierhq/sewtrack-backend/pkg/errors"
	"github.com/atelierhq/sewtrack-backend/pkg/logger"
)

type stationRequest struct {
	InternalCode string `json:"internal_code" validate:"required"`
}

// WorkInspection handles the quality-control submission. Defect reports
// carry an evidence photo in the same multipart body.
func WorkInspection(svc workflow.Service, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workflow service unavailable"))
			return
		}

		if err := validators.ParseMultipart(r, maxUploadMB); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		image, imageName, err := validators.FormFile(r, "image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if image != nil {
			defer image.Close()
		}

		input := workflow.InspectionInput{
			InternalCode: validators.FormValue(r, "internal_code"),
			IsDefect:     validators.FormBool(r, "is_defect"),
			ImageName:    imageName,
		}
		if comment := validators.SanitizeString(r.FormValue("comment"), 512); comment != "" {
			input.Comment = &comment
		}
		if image != nil {
			input.Image = image
		}

		if err := svc.SubmitInspection(r.Context(), actorFromContext(r), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "recorded"})
	}
}

func WorkPacking(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workflow service unavailable"))
			return
		}

		var body stationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SubmitPacking(r.Context(), actorFromContext(r), workflow.PackingInput{InternalCode: body.InternalCode}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "recorded"})
	}
}

func WorkMarking(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workflow service unavailable"))
			return
		}

		var body stationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SubmitMarking(r.Context(), actorFromContext(r), workflow.MarkingInput{InternalCode: body.InternalCode}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "recorded"})
	}
}

// WorkMarkingCodes lists the code sheets the marker prints for a garment.
func WorkMarkingCodes(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workflow service unavailable"))
			return
		}

		code := r.URL.Query().Get("internal_code")
		items, err := svc.MarkingCodes(r.Context(), actorFromContext(r), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// WorkMarkingApproval files an approval statement for a marked garment.
func WorkMarkingApproval(svc statements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "statements service unavailable"))
			return
		}

		var body stationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		statement, err := svc.RequestApproval(r.Context(), middleware.StaffIDFromContext(r.Context()), body.InternalCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, statement)
	}
}

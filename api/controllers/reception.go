package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/atelierhq/sewtrack-backend/api/middleware"
	"github.com/atelierhq/sewtrack-backend/api/responses"
	"github.com/atelierhq/sewtrack-backend/api/validators"
	"github.com/atelierhq/sewtrack-backend/internal/orders"
	"github.com/atelierhq/sewtrack-backend/internal/workflow"
	pkgerrors "github.com/atelierhq/sewtrack-backend/pkg/errors"
	"github.com/atelierhq/sewtrack-backend/pkg/logger"
)

// ReceptionOrders lists the orders still open for intake.
func ReceptionOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		items, err := svc.ListInProgress(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// ReceptionReceive registers one garment from a multipart submission:
// order_id, title, color, size, internal_code plus the printed code label.
func ReceptionReceive(svc workflow.Service, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workflow service unavailable"))
			return
		}

		if err := validators.ParseMultipart(r, maxUploadMB); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuid.Parse(strings.TrimSpace(validators.FormValue(r, "order_id")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order_id"))
			return
		}

		label, labelName, err := validators.FormFile(r, "label")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if label != nil {
			defer label.Close()
		}

		input := workflow.ReceiveInput{
			OrderID:      orderID,
			Title:        validators.FormValue(r, "title"),
			Color:        validators.FormValue(r, "color"),
			Size:         validators.FormValue(r, "size"),
			InternalCode: validators.FormValue(r, "internal_code"),
			LabelName:    labelName,
		}
		if label != nil {
			input.Label = label
		}

		product, err := svc.Receive(r.Context(), actorFromContext(r), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func actorFromContext(r *http.Request) workflow.Actor {
	return workflow.Actor{
		StaffID: middleware.StaffIDFromContext(r.Context()),
		Role:    middleware.RoleFromContext(r.Context()),
	}
}

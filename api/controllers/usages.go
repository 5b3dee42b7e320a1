package controllers

import (
	"net/http"

	"github.com/angelmondragon/carbon-api/api/middleware"
	"github.com/angelmondragon/carbon-api/api/responses"
	"github.com/angelmondragon/carbon-api/api/validators"
	"github.com/angelmondragon/carbon-api/internal/usages"
	pkgerrors "github.com/angelmondragon/carbon-api/pkg/errors"
	"github.com/angelmondragon/carbon-api/pkg/logger"
)

type usageCreateRequest struct {
	Amount      *float64 `json:"amount" validate:"required"`
	UsageTypeID *int     `json:"usage_type_id" validate:"required"`
}

func (r usageCreateRequest) toInput() usages.CreateInput {
	return usages.CreateInput{Amount: *r.Amount, UsageTypeID: *r.UsageTypeID}
}

// Omitted fields stay nil and are left untouched by the update.
type usageUpdateRequest struct {
	Amount      *float64 `json:"amount"`
	UsageTypeID *int     `json:"usage_type_id"`
}

func (r usageUpdateRequest) toInput() usages.UpdateInput {
	return usages.UpdateInput{Amount: r.Amount, UsageTypeID: r.UsageTypeID}
}

// UsageCreate records a usage event for the authenticated caller.
func UsageCreate(svc usages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var req usageCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Record(r.Context(), ownerID, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// UsageGet returns one of the caller's records; foreign ids are reported as missing.
func UsageGet(svc usages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), ownerID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

func UsageList(svc usages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.List(r.Context(), ownerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// UsageUpdate applies a partial update to one of the caller's records.
func UsageUpdate(svc usages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req usageUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Update(r.Context(), ownerID, id, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

func UsageDelete(svc usages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Delete(r.Context(), ownerID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
		return "", false
	}
	return userID, true
}

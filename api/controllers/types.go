package controllers

import (
	"net/http"

	"github.com/angelmondragon/carbon-api/api/responses"
	"github.com/angelmondragon/carbon-api/api/validators"
	"github.com/angelmondragon/carbon-api/internal/usagetypes"
	"github.com/angelmondragon/carbon-api/pkg/logger"
)

// UsageTypeList serves the public reference set.
func UsageTypeList(svc usagetypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		types, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types)
	}
}

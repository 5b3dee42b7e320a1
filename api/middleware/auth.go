package middleware

import (
	"net/http"

	"github.com/angelmondragon/carbon-api/api/responses"
	"github.com/angelmondragon/carbon-api/api/validators"
	pkgAuth "github.com/angelmondragon/carbon-api/pkg/auth"
	pkgerrors "github.com/angelmondragon/carbon-api/pkg/errors"
	"github.com/angelmondragon/carbon-api/pkg/logger"
)

// TokenValidator verifies a raw bearer token.
type TokenValidator interface {
	Validate(token string) (pkgAuth.Identity, error)
}

type rejectionRecorder interface {
	IncRejected(reason string)
}

// Auth validates a bearer token and seeds the request context with the caller's id.
// Every failure produces the same 401.
func Auth(validator TokenValidator, rejections rejectionRecorder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := validators.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				reject(w, r, rejections, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			identity, err := validator.Validate(token)
			if err != nil {
				reject(w, r, rejections, logg, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithUserID(r.Context(), identity.UserID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, identity.UserID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, rejections rejectionRecorder, logg *logger.Logger, err error) {
	if rejections != nil {
		rejections.IncRejected("unauthorized")
	}
	responses.WriteError(r.Context(), logg, w, err)
}

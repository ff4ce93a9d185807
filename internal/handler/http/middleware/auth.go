package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/portal-live/internal/domain/portal"
	"github.com/cmlabs-hris/portal-live/internal/handler/http/response"
	"github.com/cmlabs-hris/portal-live/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, portal.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, portal.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, portal.ErrInvalidToken)
				return
			}
			if viewerID, ok := claims[jwt.ClaimViewerID].(string); !ok || viewerID == "" {
				response.HandleError(w, portal.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

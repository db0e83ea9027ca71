package middleware

import (
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	apperrors "movieweek/internal/errors"
)

// ContentTypeValidator ensures requests with a body use one of contentTypes.
// Parameters such as the multipart boundary are ignored when matching.
func ContentTypeValidator(contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodDelete || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType == "" {
				_ = render.Render(w, r, apperrors.NewProblemDetails(
					http.StatusBadRequest,
					apperrors.TypeValidation,
					"Bad Request",
					"Content-Type header is required",
					r.URL.Path,
				))
				return
			}

			mediaType, _, err := mime.ParseMediaType(contentType)
			if err != nil {
				mediaType = contentType
			}

			for _, allowed := range contentTypes {
				if strings.EqualFold(mediaType, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			_ = render.Render(w, r, apperrors.NewProblemDetails(
				http.StatusUnsupportedMediaType,
				apperrors.TypeUnsupportedInput,
				"Unsupported Media Type",
				"Unsupported content type",
				r.URL.Path,
			).WithExtension("content_type", contentType).WithExtension("allowed", contentTypes))
		})
	}
}

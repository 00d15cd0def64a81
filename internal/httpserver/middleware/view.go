package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/Gowri0016/Creator/internal/view"
)

// ViewParam is the chi URL parameter carrying the view id.
const ViewParam = "viewID"

// ViewLookup finds live views. *view.Registry satisfies it.
type ViewLookup interface {
	Get(id string) (*view.View, error)
}

// LoadView resolves {viewID} to a live view and stores it on the context. Malformed ids
// answer 400; unknown or unmounted views answer 410 so the page knows to reload.
func LoadView(views ViewLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, ViewParam)
			if _, err := ulid.ParseStrict(id); err != nil {
				WriteError(w, r, http.StatusBadRequest, "invalid view id")
				return
			}
			v, err := views.Get(id)
			if errors.Is(err, view.ErrNotFound) {
				if IsHTMXRequest(r.Context()) {
					w.Header().Set("HX-Refresh", "true")
				}
				WriteError(w, r, http.StatusGone, "view expired")
				return
			}
			if err != nil {
				WriteError(w, r, http.StatusInternalServerError, err.Error())
				return
			}
			ctx := context.WithValue(r.Context(), viewContextKey, v)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ViewFromContext returns the view loaded by LoadView.
func ViewFromContext(ctx context.Context) (*view.View, bool) {
	v, ok := ctx.Value(viewContextKey).(*view.View)
	return v, ok && v != nil
}

// WithView stores v on ctx.
func WithView(ctx context.Context, v *view.View) context.Context {
	return context.WithValue(ctx, viewContextKey, v)
}

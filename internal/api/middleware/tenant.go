package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
)

// TenantHeader заголовок с ID тенанта
const TenantHeader = "X-Tenant-ID"

type tenantKey struct{}

// Tenant кладет ID тенанта из заголовка в контекст.
// Без заголовка или с некорректным UUID отвечает 401.
func Tenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(TenantHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок "+TenantHeader)
			return
		}

		tenantID, err := uuid.Parse(raw)
		if err != nil || tenantID == uuid.Nil {
			handlers.RespondUnauthorized(w, "некорректный "+TenantHeader)
			return
		}

		ctx := context.WithValue(r.Context(), tenantKey{}, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TenantIDFromContext достает ID тенанта, положенный Tenant
func TenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(tenantKey{}).(uuid.UUID)
	return tenantID, ok
}

// WithTenantID кладет ID тенанта в контекст
func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

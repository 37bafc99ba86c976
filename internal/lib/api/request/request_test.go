package request_test

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"imageResizer/internal/lib/api/request"
	"imageResizer/internal/variant"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestImageVariant(t *testing.T) {
	v := request.NewValidator(variant.NewPolicy(600, 1800, 85))

	tests := []struct {
		name    string
		id      string
		query   string
		wantErr error
	}{
		{name: "Valid Large", id: "A1", query: "size=large"},
		{name: "Valid Thumbnail", id: "A1", query: "size=thumbnail"},
		{name: "Unknown Size", id: "A1", query: "size=banana", wantErr: request.ErrInvalidSize},
		{name: "Missing Size", id: "A1", query: "", wantErr: request.ErrInvalidSize},
		{name: "Missing ID", id: "", query: "size=large", wantErr: request.ErrInvalidID},
		{name: "Both Missing", id: "", query: "", wantErr: request.ErrInvalidSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/images/x/file?"+tt.query, nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			got, err := v.ImageVariant(req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.id, got.ID)
		})
	}

	require.Equal(t, "Invalid size. Available sizes are thumbnail, large", v.InvalidSizeMessage())
}

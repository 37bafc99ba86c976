package getFile_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"imageResizer/internal/http-server/handlers/image/getFile"
	"imageResizer/internal/http-server/handlers/image/getFile/mocks"
	"imageResizer/internal/lib/api/request"
	"imageResizer/internal/processor"
	"imageResizer/internal/storage"
	"imageResizer/internal/transcoder"
	"imageResizer/internal/variant"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetFile(t *testing.T) {
	log := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))
	validator := request.NewValidator(variant.NewPolicy(600, 1800, 85))

	const largeURL = "https://cdn.example.com/images/A1_large.jpg"

	tests := []struct {
		name             string
		imageID          string
		size             string
		callsGetter      bool
		mockURL          string
		mockErr          error
		expectedStatus   int
		expectedLocation string
		expectedBody     string
	}{
		{
			name:             "Success",
			imageID:          "A1",
			size:             "large",
			callsGetter:      true,
			mockURL:          largeURL,
			expectedStatus:   http.StatusMovedPermanently,
			expectedLocation: largeURL,
		},
		{
			name:           "Unknown Size",
			imageID:        "A1",
			size:           "banana",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"Invalid size. Available sizes are thumbnail, large"}`,
		},
		{
			name:           "Missing Size",
			imageID:        "A1",
			size:           "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"Invalid size. Available sizes are thumbnail, large"}`,
		},
		{
			name:           "Missing ID",
			imageID:        "",
			size:           "large",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid image ID"}`,
		},
		{
			name:           "Not Found",
			imageID:        "A1",
			size:           "large",
			callsGetter:    true,
			mockErr:        fmt.Errorf("processor.GetVariantURL: %w", storage.ErrImageNotFound),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"image not found"}`,
		},
		{
			name:           "Variant Rejected By Processor",
			imageID:        "A1",
			size:           "large",
			callsGetter:    true,
			mockErr:        fmt.Errorf("processor.GetVariantURL: %w", variant.ErrUnknownVariant),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"Invalid size. Available sizes are thumbnail, large"}`,
		},
		{
			name:           "Invalid Source",
			imageID:        "A1",
			size:           "large",
			callsGetter:    true,
			mockErr:        fmt.Errorf("%w: %w", transcoder.ErrFetch, transcoder.ErrInvalidSource),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"image source is invalid or unreachable"}`,
		},
		{
			name:        "Invalid Source With Failed Repair",
			imageID:     "A1",
			size:        "large",
			callsGetter: true,
			mockErr: errors.Join(
				fmt.Errorf("%w: connection refused", transcoder.ErrFetch),
				fmt.Errorf("%w: kafka error", processor.ErrRepair),
			),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"image source is invalid or unreachable"}`,
		},
		{
			name:           "Transform Error",
			imageID:        "A1",
			size:           "large",
			callsGetter:    true,
			mockErr:        fmt.Errorf("%w: unknown format", transcoder.ErrTransform),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"image resize failed"}`,
		},
		{
			name:           "Store Error",
			imageID:        "A1",
			size:           "thumbnail",
			callsGetter:    true,
			mockErr:        fmt.Errorf("%w: 503", processor.ErrStore),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"image upload failed"}`,
		},
		{
			name:           "Persist Error",
			imageID:        "A1",
			size:           "thumbnail",
			callsGetter:    true,
			mockErr:        fmt.Errorf("%w: db error", processor.ErrPersist),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"image saving failed"}`,
		},
		{
			name:           "Internal Error",
			imageID:        "A1",
			size:           "large",
			callsGetter:    true,
			mockErr:        errors.New("db error"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to get image"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getterMock := mocks.NewVariantURLGetter(t)

			if tt.callsGetter {
				getterMock.On("GetVariantURL", mock.Anything, tt.imageID, tt.size).Return(tt.mockURL, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/images/%s/file?size=%s", tt.imageID, tt.size), nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.imageID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rr := httptest.NewRecorder()

			handler := getFile.New(log, validator, getterMock)
			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedLocation != "" {
				require.Equal(t, tt.expectedLocation, rr.Header().Get("Location"))
				return
			}

			var actualMap, expectedMap map[string]interface{}
			err := json.Unmarshal(rr.Body.Bytes(), &actualMap)
			require.NoError(t, err)
			err = json.Unmarshal([]byte(tt.expectedBody), &expectedMap)
			require.NoError(t, err)
			require.Equal(t, expectedMap, actualMap)
		})
	}
}

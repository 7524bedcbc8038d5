package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse_StatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"object not found", errs.NewObjectNotFoundError("task", "x"), http.StatusNotFound},
		{"invalid value", errs.NewValueIsInvalidError("quantity"), http.StatusBadRequest},
		{"required value", errs.NewValueIsRequiredError("barcode"), http.StatusBadRequest},
		{"out of range value", errs.NewValueIsOutOfRangeError("quantity", 12, 1, 10), http.StatusBadRequest},
		{"invalid state", errs.NewInvalidStateError("Task", "COMPLETED", "confirm"), http.StatusConflict},
		{"no allocations", commands.ErrNoAllocations, http.StatusConflict},
		{"no picked items", commands.ErrNoPickedItems, http.StatusConflict},
		{"bin already packed", commands.ErrBinAlreadyPacked, http.StatusConflict},
		{"bin cancelled", commands.ErrBinCancelled, http.StatusConflict},
		{"unverified items", &commands.UnverifiedItemsError{SKUs: []string{"SKU-A"}}, http.StatusConflict},
		{"pending items", &commands.PendingItemsError{Remaining: 2}, http.StatusConflict},
		{"unknown failure", errors.New("boom"), http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			ctx := e.NewContext(req, rec)

			require.NoError(t, errorResponse(ctx, tt.err))

			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linemk/storefront/internal/lib/api/response"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	rr := httptest.NewRecorder()
	response.Error(rr, http.StatusNotFound, "Product not found")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Product not found"}`, rr.Body.String())
}

package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ahara/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRespondErrStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"not found", &services.Error{Kind: services.ErrNotFound, Msg: "Order not found"}, http.StatusNotFound, "Order not found"},
		{"state", &services.Error{Kind: services.ErrState, Msg: "Order is not ready for pickup"}, http.StatusBadRequest, "not ready"},
		{"conflict", &services.Error{Kind: services.ErrConflict, Msg: "Order already taken"}, http.StatusBadRequest, "already taken"},
		{"unavailable", &services.UnavailableItemsError{Names: []string{"Idli"}}, http.StatusBadRequest, "Idli"},
		{"forbidden", &services.Error{Kind: services.ErrForbidden, Msg: "Your account is pending activation"}, http.StatusForbidden, "pending activation"},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"gateway", &services.Error{Kind: services.ErrGateway, Msg: "Failed to create payment order"}, http.StatusBadGateway, "payment order"},
		{"internal", errors.New("pq: relation \"orders\" does not exist"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondErr(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for query, want := range map[string][2]int{
		"":                    {20, 0},
		"?limit=5&offset=10":  {5, 10},
		"?limit=500":          {20, 0},
		"?limit=-1&offset=-3": {20, 0},
		"?limit=abc":          {20, 0},
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/"+query, nil)
		limit, offset := pagination(c)
		assert.Equal(t, want, [2]int{limit, offset}, query)
	}
}

package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEnforceService struct {
	Service
}

func (f *fakeEnforceService) Enforce(req EnforceRequest) (bool, error) {
	return req.Resource == "employee" && req.Action == "read", nil
}

func TestHandlerEnforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(&fakeEnforceService{}, zap.NewNop())
	router := gin.New()
	router.POST("/rbac/enforce", handler.Enforce)

	body, err := json.Marshal(EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "employee",
		Action:     "read",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Ok   bool            `json:"ok"`
		Data EnforceResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Ok)
	assert.True(t, envelope.Data.Allowed)
}

func TestHandlerEnforce_MissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(&fakeEnforceService{}, zap.NewNop())
	router := gin.New()
	router.POST("/rbac/enforce", handler.Enforce)

	req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewReader([]byte(`{"employee_id":" "}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

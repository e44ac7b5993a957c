package validation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name      string      `json:"name" binding:"required,min=2"`
	ISBN      string      `json:"isbn" binding:"omitempty,isbn_digits"`
	BirthDate *model.Date `json:"birth_date" binding:"omitempty,not_future"`
}

func bind(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req sampleRequest
	return w, BindAndValidateJSON(c, &req)
}

func TestBindAndValidateJSON_ReportsJSONFieldNames(t *testing.T) {
	fixToday(t, "2024-06-15")

	w, ok := bind(t, `{"name":"A","isbn":"12","birth_date":"2099-01-01"}`)
	require.False(t, ok)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_FAILED", resp.Code)

	byField := map[string]FieldError{}
	for _, fe := range resp.Errors {
		byField[fe.Field] = fe
	}
	assert.Equal(t, "min", byField["name"].Rule)
	assert.Equal(t, "isbn_digits", byField["isbn"].Rule)
	assert.Equal(t, "not_future", byField["birth_date"].Rule)
	assert.Equal(t, "ISBN must be 10 or 13 digits", byField["isbn"].Message)
}

func TestBindAndValidateJSON_Valid(t *testing.T) {
	fixToday(t, "2024-06-15")

	_, ok := bind(t, `{"name":"Asimov","isbn":"1234567890","birth_date":"1920-01-02"}`)
	assert.True(t, ok)
}

func TestBindAndValidateJSON_SyntaxError(t *testing.T) {
	w, ok := bind(t, `{"name":`)
	require.False(t, ok)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_BODY", resp.Code)
	if assert.Len(t, resp.Errors, 1) {
		assert.Equal(t, "syntax", resp.Errors[0].Rule)
	}
}

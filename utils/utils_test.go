package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"insuranceapi/models"
	"insuranceapi/pkg/reminder"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCustomValidators(t *testing.T) {
	tests := []struct {
		tag   string
		value string
		ok    bool
	}{
		{"phone", "9876543210", true},
		{"phone", "1234567890", false},
		{"phone", "98765", false},
		{"aadhar", "234567890123", true},
		{"aadhar", "034567890123", false},
		{"pan", "ABCDE1234F", true},
		{"pan", "abcde1234f", false},
		{"gstin", "24ABCDE1234F1Z5", true},
		{"gstin", "24ABCDE1234F1X5", false},
		{"pincode", "380001", true},
		{"pincode", "080001", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.value, func(t *testing.T) {
			err := ValidateVar(tt.value, tt.tag)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	c := models.Client{ClientName: "Asha", ClientType: "INDIVIDUAL", Tag: "A", Contact: "123"}

	err := ValidateStruct(&c)
	require.Error(t, err)

	appErr := ToAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "contact", appErr.Field)
	assert.Contains(t, appErr.Message, "10 digit")
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"app error passes through", NewForbiddenError(""), http.StatusForbidden, CodeForbidden},
		{"wrapped not found", fmt.Errorf("get client: %w", gorm.ErrRecordNotFound), http.StatusNotFound, CodeNotFound},
		{"duplicate", gorm.ErrDuplicatedKey, http.StatusConflict, CodeConflict},
		{"model field", &models.FieldError{Field: "policy_type", Message: "bad"}, http.StatusBadRequest, CodeValidation},
		{"window", &reminder.ValidationError{Field: "days", Message: "negative"}, http.StatusBadRequest, CodeValidation},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToAppError(tt.err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func TestErrorResponseHidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	c.Set(RequestIDKey, "req-1")

	ErrorResponse(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeInternal, body.Error)
	assert.Equal(t, "req-1", body.RequestID)
	assert.NotContains(t, body.Message, "10.0.0.5")
}

func TestPasswordHashing(t *testing.T) {
	_, err := HashPassword("short")
	assert.Error(t, err)

	hash, err := HashPassword("Secret@123")
	require.NoError(t, err)

	ok, err := CheckPassword(hash, "Secret@123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword("not-a-hash", "x")
	assert.Error(t, err)
}

func TestQueryHelpers(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x?page=3&city_id=7&bad=x&grouped=true&zero=0", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	page, ok := QueryInt(c, "page", 1)
	assert.True(t, ok)
	assert.Equal(t, 3, page)

	_, ok = QueryInt(c, "bad", 1)
	assert.False(t, ok)

	city, err := QueryUint(c, "city_id")
	require.NoError(t, err)
	assert.Equal(t, uint(7), *city)

	zero, err := QueryUint(c, "zero")
	require.NoError(t, err)
	assert.Nil(t, zero)

	_, err = QueryUint(c, "bad")
	assert.Error(t, err)

	assert.True(t, QueryBool(c, "grouped", false))
	assert.False(t, QueryBool(c, "missing", false))

	id, err := ParseIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	c.Params = gin.Params{{Key: "id", Value: "0"}}
	_, err = ParseIDParam(c, "id")
	assert.Error(t, err)
}

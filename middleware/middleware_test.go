package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"insuranceapi/models"
	"insuranceapi/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(Sessions(SessionOptions{Secret: "test-secret-test-secret", Name: "test_session", MaxAge: time.Hour}))

	r.POST("/login/:role", func(c *gin.Context) {
		user := &models.User{ID: 7, Username: "clerk", Role: c.Param("role")}
		token, err := SignIn(c, user)
		if err != nil {
			utils.ErrorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"csrf_token": token})
	})
	r.GET("/csrf", func(c *gin.Context) {
		token, err := CSRFToken(c)
		if err != nil {
			utils.ErrorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"csrf_token": token})
	})

	protected := r.Group("", RequireAuth(), RequireCSRF())
	protected.GET("/me", func(c *gin.Context) {
		actor, _ := CurrentActor(c)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "username": actor.Username, "role": actor.Role})
	})
	protected.POST("/items", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	protected.POST("/logout", func(c *gin.Context) {
		if err := SignOut(c); err != nil {
			utils.ErrorResponse(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	protected.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func perform(r http.Handler, method, path string, cookies []*http.Cookie, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, r http.Handler, role string) ([]*http.Cookie, string) {
	t.Helper()
	rec := perform(r, http.MethodPost, "/login/"+role, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		CSRFToken string `json:"csrf_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.CSRFToken)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies, body.CSRFToken
}

func TestRequireAuth(t *testing.T) {
	r := newTestRouter()

	rec := perform(r, http.MethodGet, "/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), utils.CodeUnauthorized)

	cookies, _ := login(t, r, models.RoleStaff)
	rec = perform(r, http.MethodGet, "/me", cookies, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		UserID   uint   `json:"user_id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, uint(7), me.UserID)
	assert.Equal(t, "clerk", me.Username)
	assert.Equal(t, models.RoleStaff, me.Role)
}

func TestRequireCSRF(t *testing.T) {
	r := newTestRouter()
	cookies, token := login(t, r, models.RoleStaff)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing token", "", http.StatusForbidden},
		{"wrong token", "not-the-token", http.StatusForbidden},
		{"matching token", token, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers[CSRFHeader] = tt.header
			}
			rec := perform(r, http.MethodPost, "/items", cookies, headers)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	// Safe methods need no token.
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/me", cookies, nil).Code)
}

func TestRequireRole(t *testing.T) {
	r := newTestRouter()

	staff, _ := login(t, r, models.RoleStaff)
	rec := perform(r, http.MethodGet, "/admin", staff, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), utils.CodeForbidden)

	admin, _ := login(t, r, models.RoleAdmin)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/admin", admin, nil).Code)
}

func TestSignOut(t *testing.T) {
	r := newTestRouter()
	cookies, token := login(t, r, models.RoleStaff)

	rec := perform(r, http.MethodPost, "/logout", cookies, map[string]string{CSRFHeader: token})
	require.Equal(t, http.StatusNoContent, rec.Code)

	cleared := rec.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/me", cleared, nil).Code)
}

func TestCSRFTokenIsStablePerSession(t *testing.T) {
	r := newTestRouter()

	first := perform(r, http.MethodGet, "/csrf", nil, nil)
	require.Equal(t, http.StatusOK, first.Code)
	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies)

	second := perform(r, http.MethodGet, "/csrf", cookies, nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	// A session holding only a CSRF token is still anonymous.
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/me", cookies, nil).Code)
}

func TestRequestID(t *testing.T) {
	r := newTestRouter()
	known := uuid.NewString()

	tests := []struct {
		name     string
		incoming string
		echoed   bool
	}{
		{"generated when absent", "", false},
		{"reused when valid", known, true},
		{"replaced when malformed", "not a uuid", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.incoming != "" {
				headers[RequestIDHeader] = tt.incoming
			}
			rec := perform(r, http.MethodGet, "/csrf", nil, headers)
			got := rec.Header().Get(RequestIDHeader)
			_, err := uuid.Parse(got)
			require.NoError(t, err)
			if tt.echoed {
				assert.Equal(t, tt.incoming, got)
			} else {
				assert.NotEqual(t, tt.incoming, got)
			}
		})
	}
}

package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"insuranceapi/models"
	"insuranceapi/pkg/logger"
	"insuranceapi/services/dto"
	"insuranceapi/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Session keys.
const (
	sessionUserID   = "user_id"
	sessionUsername = "username"
	sessionRole     = "role"
	sessionCSRF     = "csrf_token"
)

// CSRFHeader carries the session's CSRF token on state-changing requests.
const CSRFHeader = "X-CSRF-Token"

// actorKey is the gin context key holding the signed-in dto.Actor.
const actorKey = "actor"

// SessionOptions configures the session cookie.
type SessionOptions struct {
	Secret string
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Sessions installs a signed cookie session store.
func Sessions(opts SessionOptions) gin.HandlerFunc {
	store := cookie.NewStore([]byte(opts.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(opts.Name, store)
}

// SignIn replaces the session with one for user and returns its fresh CSRF token.
func SignIn(c *gin.Context, user *models.User) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	sess := sessions.Default(c)
	sess.Clear()
	sess.Set(sessionUserID, user.ID)
	sess.Set(sessionUsername, user.Username)
	sess.Set(sessionRole, user.Role)
	sess.Set(sessionCSRF, token)
	if err := sess.Save(); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return token, nil
}

// SignOut clears the session and expires its cookie.
func SignOut(c *gin.Context) error {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// CSRFToken returns the session's CSRF token, creating one for a new session.
func CSRFToken(c *gin.Context) (string, error) {
	sess := sessions.Default(c)
	if token, ok := sess.Get(sessionCSRF).(string); ok && token != "" {
		return token, nil
	}
	token, err := newToken()
	if err != nil {
		return "", err
	}
	sess.Set(sessionCSRF, token)
	if err := sess.Save(); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return token, nil
}

// RequireAuth rejects requests without a signed-in session and stores the
// actor for the handlers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		userID, ok := sess.Get(sessionUserID).(uint)
		if !ok || userID == 0 {
			utils.ErrorResponse(c, utils.NewUnauthorizedError(""))
			return
		}
		username, _ := sess.Get(sessionUsername).(string)
		role, _ := sess.Get(sessionRole).(string)

		c.Set(actorKey, dto.Actor{UserID: userID, Username: username, Role: role})
		c.Next()
	}
}

// RequireRole lets through only actors holding one of roles. It must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			utils.ErrorResponse(c, utils.NewUnauthorizedError(""))
			return
		}
		if _, ok := allowed[actor.Role]; !ok {
			logger.Warnf("User %q with role %q denied %s %s", actor.Username, actor.Role, c.Request.Method, c.Request.URL.Path)
			utils.ErrorResponse(c, utils.NewForbiddenError(""))
			return
		}
		c.Next()
	}
}

// RequireCSRF checks the CSRF header against the session token on POST, PUT,
// PATCH and DELETE.
func RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		expected, _ := sessions.Default(c).Get(sessionCSRF).(string)
		got := c.GetHeader(CSRFHeader)
		if expected == "" || got == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
			utils.ErrorResponse(c, utils.NewForbiddenError("missing or invalid CSRF token"))
			return
		}
		c.Next()
	}
}

// CurrentActor returns the actor stored by RequireAuth.
func CurrentActor(c *gin.Context) (dto.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return dto.Actor{}, false
	}
	actor, ok := v.(dto.Actor)
	return actor, ok
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

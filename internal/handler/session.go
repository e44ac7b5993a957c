package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/auth"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

type LoginRequest struct {
	Login    string `json:"login" binding:"required" example:"reader"`
	Password string `json:"password" binding:"required"`
}

type SessionHandler struct {
	authn        *auth.Authenticator
	sessions     auth.SessionStore
	secureCookie bool
}

func NewSessionHandler(authn *auth.Authenticator, sessions auth.SessionStore, secureCookie bool) *SessionHandler {
	return &SessionHandler{authn: authn, sessions: sessions, secureCookie: secureCookie}
}

// RegisterRoutes mounts login and logout outside the authenticated group.
func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	session := r.Group("/auth/session")
	{
		handle(session, http.MethodPost, "", h.Login)
		handle(session, http.MethodDelete, "", h.Logout)
	}
}

// Login godoc
// @Summary      Start a session
// @Description  Check a username or email with its password and set the sessionid cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      LoginRequest               true  "Credentials"
// @Success      201      {object}  MemberResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      401      {object}  validation.ErrorResponse   "Wrong credentials"
// @Router       /auth/session/ [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	member, err := h.authn.Login(ctx, req.Login, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(c, http.StatusUnauthorized,
			"INVALID_CREDENTIALS",
			"unable to log in with provided credentials",
		)
		return
	}
	if err != nil {
		writeStoreError(c, err, "session", "SESSION_CREATE_FAILED")
		return
	}

	sid, err := h.sessions.Create(ctx, member.ID)
	if err != nil {
		writeStoreError(c, err, "session", "SESSION_CREATE_FAILED")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, sid, int(h.sessions.TTL().Seconds()), "/", "", h.secureCookie, true)

	c.JSON(http.StatusCreated, MemberResponse{Data: toMember(*member)})
}

// Logout godoc
// @Summary      End the session
// @Description  Forget the session named by the sessionid cookie and clear the cookie.
// @Tags         auth
// @Success      204  "No Content"
// @Router       /auth/session/ [delete]
func (h *SessionHandler) Logout(c *gin.Context) {
	if sid, err := c.Cookie(auth.SessionCookie); err == nil && sid != "" {
		if err := h.sessions.Delete(c.Request.Context(), sid); err != nil {
			writeStoreError(c, err, "session", "SESSION_DELETE_FAILED")
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}

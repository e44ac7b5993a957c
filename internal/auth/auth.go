// Package auth resolves the caller of a request from a bearer token, a
// session cookie or basic credentials, tried in that order.
package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/policy"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
	"gorm.io/gorm"
)

const memberKey = "member"

var ErrInvalidCredentials = errors.New("invalid credentials")

// MemberFinder is the part of the member repository authentication needs.
type MemberFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error)
	FindByLogin(ctx context.Context, login string) (*model.Member, error)
}

type Authenticator struct {
	members  MemberFinder
	tokens   *TokenVerifier
	sessions SessionStore
}

// NewAuthenticator builds an Authenticator. tokens and sessions may be nil,
// which turns the matching scheme off.
func NewAuthenticator(members MemberFinder, tokens *TokenVerifier, sessions SessionStore) *Authenticator {
	return &Authenticator{members: members, tokens: tokens, sessions: sessions}
}

func (a *Authenticator) Sessions() SessionStore {
	return a.sessions
}

// Required rejects the request with 401 unless one of the schemes names an
// existing member.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, err := a.authenticate(c)
		if err != nil {
			if !errors.Is(err, ErrInvalidCredentials) {
				log.Printf("authentication failed: %v", err)
			}
			c.Header("WWW-Authenticate", `Bearer realm="library", Basic realm="library"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, validation.ErrorResponse{
				Code:    "UNAUTHENTICATED",
				Message: "authentication credentials were not provided or are invalid",
			})
			return
		}

		c.Set(memberKey, member)
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context) (*model.Member, error) {
	ctx := c.Request.Context()
	header := c.GetHeader("Authorization")

	scheme, credentials, _ := strings.Cut(header, " ")
	switch strings.ToLower(scheme) {
	case "bearer":
		if a.tokens == nil {
			return nil, ErrInvalidCredentials
		}
		id, err := a.tokens.Verify(strings.TrimSpace(credentials))
		if err != nil {
			return nil, ErrInvalidCredentials
		}
		return a.lookup(ctx, id)
	case "basic":
		login, password, ok := c.Request.BasicAuth()
		if !ok {
			return nil, ErrInvalidCredentials
		}
		return a.Login(ctx, login, password)
	}

	if a.sessions != nil {
		if sid, err := c.Cookie(SessionCookie); err == nil && sid != "" {
			sess, err := a.sessions.Get(ctx, sid)
			if errors.Is(err, ErrSessionNotFound) {
				return nil, ErrInvalidCredentials
			}
			if err != nil {
				return nil, err
			}
			return a.lookup(ctx, sess.MemberID)
		}
	}

	return nil, ErrInvalidCredentials
}

func (a *Authenticator) lookup(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	member, err := a.members.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	return member, err
}

// Login checks a username or email against the stored password hash.
func (a *Authenticator) Login(ctx context.Context, login, password string) (*model.Member, error) {
	member, err := a.members.FindByLogin(ctx, login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(member.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return member, nil
}

// MemberFrom returns the member Required stored on the context.
func MemberFrom(c *gin.Context) (*model.Member, bool) {
	v, ok := c.Get(memberKey)
	if !ok {
		return nil, false
	}
	m, ok := v.(*model.Member)
	return m, ok
}

func CallerFrom(c *gin.Context) policy.Caller {
	m, ok := MemberFrom(c)
	if !ok {
		return policy.Caller{}
	}
	return policy.Caller{ID: m.ID, Staff: m.IsStaff, Authenticated: true}
}

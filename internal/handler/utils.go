package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/auth"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/policy"
)

// handle registers path both with and without a trailing slash.
func handle(g *gin.RouterGroup, method, path string, handlers ...gin.HandlerFunc) {
	g.Handle(method, path, handlers...)
	g.Handle(method, strings.TrimSuffix(path, "/")+"/", handlers...)
}

func entityCode(entity string) string {
	return strings.ToUpper(strings.ReplaceAll(entity, " ", "_"))
}

func parseIDParam(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest,
			"INVALID_"+entityCode(entity)+"_ID",
			"invalid "+entity+" id",
		)
		return uuid.Nil, false
	}
	return id, true
}

func parseUUIDQuery(c *gin.Context, key string) (*uuid.UUID, bool) {
	s := c.Query(key)
	if s == "" {
		return nil, true
	}

	id, err := uuid.Parse(s)
	if err != nil {
		writeError(c, http.StatusBadRequest,
			"INVALID_"+strings.ToUpper(key),
			key+" must be a valid UUID",
		)
		return nil, false
	}
	return &id, true
}

func parseIntQuery(c *gin.Context, key string) (*int, bool) {
	s := c.Query(key)
	if s == "" {
		return nil, true
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		writeError(c, http.StatusBadRequest,
			"INVALID_"+strings.ToUpper(key),
			key+" must be an integer",
		)
		return nil, false
	}
	return &v, true
}

// authorize checks op against the collection or a loaded record. Denials on
// records the caller may not even see are reported as not found.
func authorize(c *gin.Context, op policy.Operation, res policy.Resource, entity string) bool {
	caller := auth.CallerFrom(c)
	if policy.Allow(op, caller, res) {
		return true
	}

	switch {
	case !caller.Authenticated:
		writeError(c, http.StatusUnauthorized,
			"UNAUTHENTICATED",
			"authentication credentials were not provided or are invalid",
		)
	case res.Owner != nil && !policy.Allow(policy.Retrieve, caller, res):
		writeNotFound(c, entity)
	default:
		writeError(c, http.StatusForbidden,
			"PERMISSION_DENIED",
			"you do not have permission to perform this action",
		)
	}
	return false
}

// dateValue unwraps an optional request date for storage.
func dateValue(d *model.Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

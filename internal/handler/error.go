package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/copystatus"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
	"gorm.io/gorm"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, validation.ErrorResponse{
		Code:    code,
		Message: message,
		Errors:  nil,
	})
}

func writeNotFound(c *gin.Context, entity string) {
	writeError(c, http.StatusNotFound,
		entityCode(entity)+"_NOT_FOUND",
		entity+" not found",
	)
}

// writeStoreError maps repository errors onto responses. failCode is used for
// anything unexpected, which is logged and reported as a 500.
func writeStoreError(c *gin.Context, err error, entity, failCode string) {
	var (
		conflict   *repository.ConflictError
		reference  *repository.ReferenceError
		transition *copystatus.TransitionError
	)

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		writeNotFound(c, entity)
	case errors.As(err, &conflict):
		c.AbortWithStatusJSON(http.StatusConflict, validation.ErrorResponse{
			Code:    "CONFLICT",
			Message: conflict.Message,
			Errors: []validation.FieldError{{
				Field:   conflict.Field,
				Rule:    conflict.Rule,
				Message: conflict.Message,
			}},
		})
	case errors.As(err, &reference):
		validation.AbortWithFieldErrors(c, []validation.FieldError{{
			Field:   reference.Field,
			Rule:    "exists",
			Message: `Invalid pk "` + reference.ID + `" - object does not exist.`,
		}})
	case errors.As(err, &transition):
		validation.AbortWithFieldErrors(c, []validation.FieldError{{
			Field:   "status",
			Rule:    "transition",
			Message: transition.Error(),
		}})
	default:
		log.Printf("%s: %v", failCode, err)
		writeError(c, http.StatusInternalServerError,
			failCode,
			"failed to process "+entity,
		)
	}
}

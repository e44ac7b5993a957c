package validation

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

var registerOnce sync.Once

// Register installs the library rules on gin's binding validator. It is safe
// to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(jsonFieldName)

		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(model.Date); ok {
				return d.Time
			}
			return nil
		}, model.Date{})

		mustRegister(v, "isbn_digits", func(fl validator.FieldLevel) bool {
			return ISBN(fl.Field().String())
		})
		mustRegister(v, "genre_name", func(fl validator.FieldLevel) bool {
			return GenreName(fl.Field().String())
		})
		mustRegister(v, "http_url", func(fl validator.FieldLevel) bool {
			return Website(fl.Field().String())
		})
		mustRegister(v, "not_future", notFuture)
		mustRegister(v, "two_decimals", func(fl validator.FieldLevel) bool {
			return TwoDecimals(fl.Field().Float())
		})
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return toJSONFieldName(fld.Name)
	}
	return name
}

func BindAndValidateJSON(c *gin.Context, dst any) bool {
	Register()

	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			resp := formatValidationErrors(verrs)
			c.AbortWithStatusJSON(http.StatusBadRequest, resp)
			return false
		}

		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_BODY",
			Message: "invalid request body",
			Errors: []FieldError{
				{
					Field:   "",
					Rule:    "syntax",
					Message: err.Error(),
				},
			},
		})
		return false
	}

	return true
}

// AbortWithFieldErrors reports checks that run after binding, such as
// cross-field rules on a merged record.
func AbortWithFieldErrors(c *gin.Context, fields []FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:    "VALIDATION_FAILED",
		Message: "validation failed",
		Errors:  fields,
	})
}

func formatValidationErrors(verrs validator.ValidationErrors) ErrorResponse {
	fields := make([]FieldError, 0, len(verrs))

	for _, fe := range verrs {
		jsonField := fe.Field()
		fields = append(fields, FieldError{
			Field:   jsonField,
			Rule:    fe.Tag(),
			Message: buildMessage(jsonField, fe),
		})
	}

	return ErrorResponse{
		Code:    "VALIDATION_FAILED",
		Message: "validation failed",
		Errors:  fields,
	}
}

func toJSONFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func buildMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return field + " must be at least " + fe.Param() + " characters long"
		}
		return field + " must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return field + " must be at most " + fe.Param() + " characters long"
		}
		return field + " must be at most " + fe.Param()
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "email":
		return "Enter a valid email address"
	case "isbn_digits":
		return "ISBN must be 10 or 13 digits"
	case "genre_name":
		return "Genre name can only contain letters, numbers and spaces"
	case "http_url":
		return "Website must be a valid URL starting with http/https"
	case "not_future":
		return field + " cannot be in the future"
	case "two_decimals":
		return "Ensure that there are no more than 2 decimal places"
	}

	return field + " is invalid (" + fe.Tag() + ")"
}

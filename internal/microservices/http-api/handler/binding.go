package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"reviewhub/internal/microservices/http-api/apperr"
	"reviewhub/internal/microservices/http-api/middleware"
)

const requestTimeout = 5 * time.Second

var registerOnce sync.Once

// RegisterValidators configures gin binding: unknown JSON fields are
// rejected, messages use json field names, and the nowhitespace tag exists.
// Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		err = v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
			return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) < 0
		})
	})
	return err
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// bindJSON decodes the body into dst and aborts with a validation error on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.Abort(c, bindError(err))
		return false
	}
	return true
}

// bindError converts decode and validator failures into a ValidationError.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperr.Validation(fieldMessage(verrs[0]))
	}

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var numErr *strconv.NumError
	switch {
	case errors.Is(err, io.EOF):
		return apperr.Validation("request body is required")
	case errors.As(err, &typeErr):
		return apperr.Validationf("%s has the wrong type", typeErr.Field)
	case errors.As(err, &syntaxErr):
		return apperr.Validation("request body is not valid JSON")
	case errors.As(err, &numErr):
		return apperr.Validationf("%q is not a number", numErr.Num)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return apperr.Validationf("unknown field %s", field)
	}
	return apperr.Validation("invalid request")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "nowhitespace":
		return fmt.Sprintf("%s must not contain whitespace", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.Abort(c, apperr.Validationf("invalid %s", name))
		return 0, false
	}
	return id, true
}

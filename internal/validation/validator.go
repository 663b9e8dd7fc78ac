// Package validation registers the custom binding rules used by request
// models.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"short-link/internal/service"
)

var (
	once    sync.Once
	initErr error
)

// Register installs the custom rules on v.
//
//	shorturl  accepted link target (http, https or mini-program scheme)
//	notblank  string with at least one non-space character
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
		return fld.Name
	})

	if err := v.RegisterValidation("shorturl", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return service.ValidURL(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// RegisterGin installs the custom rules on gin's default validator. It is
// safe to call more than once.
func RegisterGin() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			initErr = fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
			return
		}
		initErr = Register(v)
	})
	return initErr
}

// FailedTag returns the tag of the first failed rule in err, or "" when
// err is not a validation error.
func FailedTag(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Tag()
	}
	return ""
}

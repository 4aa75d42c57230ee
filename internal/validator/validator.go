package validator

import (
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// Setup registers the validator with English translations on Gin's binding engine.
// Call once during application startup.
func Setup() {
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		// Use the JSON (or form) tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)
	}
}

// FieldErrors describes why a payload was rejected.
type FieldErrors struct {
	// Messages maps field name to a human-readable message.
	Messages map[string]string
	// Tags maps field name to the failed rule ("required", "oneof", ...).
	Tags map[string]string
}

// Failed reports whether any field failed the given rule.
func (e *FieldErrors) Failed(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// FieldFailed reports whether field failed the given rule.
func (e *FieldErrors) FieldFailed(field, tag string) bool {
	return e.Tags[field] == tag
}

// TranslateErrors converts a binding error into FieldErrors. Errors that are not
// validation errors (malformed JSON, wrong types) land under "detail".
func TranslateErrors(err error) *FieldErrors {
	fe := &FieldErrors{Messages: map[string]string{}, Tags: map[string]string{}}

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, f := range ve {
			if trans != nil {
				fe.Messages[f.Field()] = f.Translate(trans)
			} else {
				fe.Messages[f.Field()] = f.Error()
			}
			fe.Tags[f.Field()] = f.Tag()
		}
		return fe
	}

	fe.Messages["detail"] = err.Error()
	fe.Tags["detail"] = "payload"
	return fe
}

// Bind binds and validates the JSON request body into dst.
// Returns nil on success.
func Bind(c *gin.Context, dst interface{}) *FieldErrors {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindOptional is Bind for endpoints whose JSON body may be absent. An empty
// body, chunked or not, leaves dst untouched.
func BindOptional(c *gin.Context, dst interface{}) *FieldErrors {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return TranslateErrors(err)
	}
	return nil
}

// BindForm binds and validates form fields into dst, picking the binding from the
// request content type (multipart or urlencoded).
func BindForm(c *gin.Context, dst interface{}) *FieldErrors {
	if err := c.ShouldBind(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

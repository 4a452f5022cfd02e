package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var mobileRe = regexp.MustCompile(`^09\d{9}$`)

// SignupRoles are the account types a visitor may register as.
var SignupRoles = []string{"industry", "professor", "student"}

// Init registers the platform tags on the validator behind Gin binding.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register reports errors under JSON (or form) field names and adds the
// platform tags:
//
//	mobile      Iranian mobile number, 09 followed by nine digits
//	signuprole  one of SignupRoles
//	score       evaluation score from 1 to 5
//	pwd         password of at least six characters
//	strongpwd   eight characters mixing case, digits and symbols
//	notblank    not empty once surrounding whitespace is trimmed
//	tmin        minimum length in characters after trimming whitespace
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return ""
	})
	v.RegisterAlias("pwd", "min=6")
	v.RegisterAlias("strongpwd", "min=8,containsany=!@#$%^&*(),containsany=0123456789,containsany=ABCDEFGHIJKLMNOPQRSTUVWXYZ,containsany=abcdefghijklmnopqrstuvwxyz")
	v.RegisterAlias("score", "min=1,max=5")

	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("signuprole", func(fl validator.FieldLevel) bool {
		return slices.Contains(SignupRoles, fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("tmin", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
	})
}

// ToDetails turns a binding error into field -> message pairs for the
// error envelope. Malformed JSON collapses to a single "payload" entry.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"payload": "invalid payload"}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

// fixed holds messages that do not depend on the tag parameter.
var fixed = map[string]string{
	"required":   "is required",
	"email":      "must be a valid email",
	"url":        "must be a valid URL",
	"http_url":   "must be a valid URL",
	"uuid":       "must be a valid UUID",
	"mobile":     "must be a mobile number like 09123456789",
	"numeric":    "must be numeric",
	"boolean":    "must be a boolean value",
	"alphanum":   "must contain alphanumeric characters only",
	"unique":     "must contain unique items",
	"pwd":        "must be at least 6 characters long",
	"strongpwd":  "must be at least 8 characters with uppercase, lowercase, number and special character",
	"signuprole": "must be one of: " + strings.Join(SignupRoles, ", "),
	"score":      "must be between 1 and 5",
	"notblank":   "must not be blank",
}

// withParam holds messages that end in the tag parameter.
var withParam = map[string]string{
	"required_with":    "is required when %s is present",
	"required_without": "is required when %s is not present",
	"containsany":      "must contain at least one of '%s'",
	"len":              "must be exactly %s characters long",
	"gt":               "must be greater than %s",
	"gte":              "must be greater than or equal to %s",
	"lt":               "must be less than %s",
	"lte":              "must be less than or equal to %s",
	"eqfield":          "must be equal to %s field",
	"nefield":          "must not be equal to %s field",
	"tmin":             "must be at least %s characters long",
}

func message(fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()
	if msg, ok := fixed[tag]; ok {
		return msg
	}
	if format, ok := withParam[tag]; ok {
		return strings.Replace(format, "%s", param, 1)
	}
	switch tag {
	case "min", "max":
		bound := map[string]string{"min": "at least ", "max": "at most "}[tag] + param
		switch fe.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return "must contain " + bound + " items"
		case reflect.String:
			return "must be " + bound + " characters long"
		default:
			return "must be " + bound
		}
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	}
	if param != "" {
		return "failed '" + tag + "' with parameter '" + param + "'"
	}
	return "failed '" + tag + "'"
}

package utils

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	aadharPattern  = regexp.MustCompile(`^[2-9][0-9]{11}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	gstinPattern   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	phonePattern   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

func init() {
	validate = validator.New()

	// Report json names so errors match request fields.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	registerPattern("aadhar", aadharPattern)
	registerPattern("pan", panPattern)
	registerPattern("gstin", gstinPattern)
	registerPattern("phone", phonePattern)
	registerPattern("pincode", pincodePattern)
}

func registerPattern(tag string, re *regexp.Regexp) {
	if err := validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

// ValidateStruct runs struct-tag validation, including the custom document tags.
func ValidateStruct(obj interface{}) error {
	return validate.Struct(obj)
}

// ValidateVar validates a single value against a tag expression.
func ValidateVar(value interface{}, tag string) error {
	return validate.Var(value, tag)
}

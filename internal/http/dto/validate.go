package dto

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern      = regexp.MustCompile(`^[a-zA-Z0-9]+(-[a-zA-Z0-9]+)?$`)
	workspaceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+([ -]?[a-zA-Z0-9]+)*$`)

	registerOnce sync.Once
)

const (
	msgUsernameFormat      = "Username may only contain alphanumeric characters or single hyphens, and cannot begin or end with a hyphen"
	msgUsernameLength      = "Username must be between 5-20 characters"
	msgWorkspaceNameFormat = "may only contain alphanumeric characters or hyphens, and cannot begin or end with a hyphen"
	msgWorkspaceNameLength = "Workspace name must be at least 5 characters"
	msgPasswordLength      = "Password must be at least 8 characters"
)

// RegisterValidators installs the custom rules on gin's validator engine and
// makes issue keys follow json field names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("workspacename", func(fl validator.FieldLevel) bool {
			return workspaceNamePattern.MatchString(fl.Field().String())
		})
	})
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Issues maps a binding failure to field -> messages. It reports false when
// err is not a validation failure.
func Issues(err error) (map[string][]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	issues := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		issues[field] = append(issues[field], issueMessage(fe))
	}
	return issues, true
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is not valid"
	case "username":
		return msgUsernameFormat
	case "workspacename":
		return msgWorkspaceNameFormat
	case "min", "max":
		switch fe.Field() {
		case "username":
			return msgUsernameLength
		case "name":
			return msgWorkspaceNameLength
		default:
			return msgPasswordLength
		}
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

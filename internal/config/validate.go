// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field has at least one error.
func (e ValidateErrors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	languagePattern = regexp.MustCompile(`^[a-z]{2}$`)
)

// validatorInstance returns the shared validator. Field names in errors use
// the toml key path, e.g. "content.language".
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("language_code", func(fl validator.FieldLevel) bool {
			return languagePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("location", func(fl validator.FieldLevel) bool {
			return isLocation(fl.Field().String())
		})

		validateInst = v
	})
	return validateInst
}

// isLocation accepts http(s) URLs with a host, file:// URLs and plain paths.
func isLocation(s string) bool {
	if strings.TrimSpace(s) == "" || strings.Contains(s, "\x00") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		return true
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "file":
		return u.Path != ""
	}
	return false
}

// Validate checks the configuration and returns ValidateErrors listing every
// problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if err := validatorInstance().Struct(c); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return err
		}
		for _, fe := range ves {
			errs = append(errs, ValidationError{
				Field:   fieldPath(fe),
				Message: fmt.Sprintf("failed validation for tag '%s'", fe.Tag()),
			})
		}
	}

	for i, word := range c.Guard.Denylist {
		if strings.TrimSpace(word) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("guard.denylist[%d]", i),
				Message: "keyword must not be empty",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// fieldPath strips the root struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

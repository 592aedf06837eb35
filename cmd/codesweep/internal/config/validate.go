// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/codesweep/cmd/codesweep/internal/candidate"
	"github.com/AleutianAI/codesweep/pkg/validation"
)

// validate is shared by every Validate call. Field names are reported by
// their yaml keys.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterStructValidation(validatePattern, PatternConfig{})
	_ = validate.RegisterValidation("adbserial", func(fl validator.FieldLevel) bool {
		return validation.ValidateSerial(fl.Field().String()) == nil
	})
	_ = validate.RegisterValidation("shellsafe", func(fl validator.FieldLevel) bool {
		return validation.ValidateShellCommand(fl.Field().String()) == nil
	})
}

// validatePattern rejects dots that fall outside the grid.
func validatePattern(sl validator.StructLevel) {
	p := sl.Current().Interface().(PatternConfig)
	if p.GridSize < 2 {
		return
	}
	cells := p.GridSize * p.GridSize
	for _, d := range p.Dots {
		if d >= cells {
			sl.ReportError(p.Dots, "dots", "Dots", "ingrid", fmt.Sprint(cells-1))
			return
		}
	}
}

// Validate checks every rule once. The returned error wraps
// validator.ValidationErrors when a field rule fails.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Code.Kind == string(candidate.KindPattern) {
		if err := validate.Struct(&c.Pattern); err != nil {
			return fmt.Errorf("invalid pattern configuration: %w", err)
		}
	}
	return nil
}

// Problems flattens a Validate error into one readable line per field.
func Problems(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err == nil {
			return nil
		}
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s, got %v", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s: must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s: must be at most %s, got %v", field, fe.Param(), fe.Value())
	case "gtefield":
		return fmt.Sprintf("%s: must be at least %s, got %v", field, snake(fe.Param()), fe.Value())
	case "required", "min":
		return fmt.Sprintf("%s: must not be empty", field)
	case "unique":
		return fmt.Sprintf("%s: must not repeat a dot, got %v", field, fe.Value())
	case "ingrid":
		return fmt.Sprintf("%s: every dot must be between 0 and %s, got %v", field, fe.Param(), fe.Value())
	case "adbserial":
		return fmt.Sprintf("%s: not an adb serial: %q", field, fe.Value())
	case "shellsafe":
		return fmt.Sprintf("%s: words may only use letters, digits and _ . / - =, got %q", field, fe.Value())
	case "hostname_port":
		return fmt.Sprintf("%s: must be host:port, got %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s: failed %q", field, fe.Tag())
	}
}

// fieldPath turns "Config.attempt.pause" into "attempt.pause" and
// "PatternConfig.dots" into "pattern.dots".
func fieldPath(ns string) string {
	root, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	if root == "PatternConfig" {
		return "pattern." + rest
	}
	return rest
}

// snake converts a Go field name such as LockoutWindow to lockout_window.
func snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

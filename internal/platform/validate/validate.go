// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field errors for one operation and reports
// them together as a single VALIDATION_ERROR.
//
// Services build a [Validator], chain rules, and return [Validator.Err]
// before touching storage or the database. A Validator is per call and
// not safe for concurrent use.
package validate

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/pkg/workname"
)

// ErrInvalidJSON is returned when a request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates [apperr.FieldError] values.
type Validator struct {
	errs []apperr.FieldError
}

// check records message for field unless ok.
func (validator *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		validator.errs = append(validator.errs, apperr.FieldError{Field: field, Message: message})
	}
	return validator
}

// # Strings

func (validator *Validator) Required(field, value string) *Validator {
	return validator.check(strings.TrimSpace(value) != "", field, "This field is required")
}

// MaxLen counts runes, so multi-byte names are not penalised.
func (validator *Validator) MaxLen(field, value string, max int) *Validator {
	return validator.check(utf8.RuneCountInString(value) <= max, field, fmt.Sprintf("Maximum %d characters", max))
}

// WorkName applies the directory-name rules of [workname.Check].
func (validator *Validator) WorkName(field, value string) *Validator {
	err := workname.Check(value)
	if err == nil {
		return validator
	}
	return validator.check(false, field, err.Error())
}

func (validator *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return validator.check(slices.Contains(allowed, value), field, "Must be one of: "+strings.Join(allowed, ", "))
}

// # Numbers

// Range is inclusive on both ends.
func (validator *Validator) Range(field string, value, min, max int) *Validator {
	return validator.check(value >= min && value <= max, field, fmt.Sprintf("Must be between %d and %d", min, max))
}

func (validator *Validator) Positive(field string, value int64) *Validator {
	return validator.check(value > 0, field, "Must be a positive integer")
}

// IDs fails once for an empty list or for any non-positive id in it.
// Keyword attach and detach bodies go through this.
func (validator *Validator) IDs(field string, ids []int64) *Validator {
	if len(ids) == 0 {
		return validator.check(false, field, "At least one id is required")
	}
	allPositive := !slices.ContainsFunc(ids, func(id int64) bool { return id <= 0 })
	return validator.check(allPositive, field, "Must contain only positive integers")
}

// # Escape Hatch

// Custom records message when failed is true, for rules with no helper:
//
//	validator.Custom("pages", len(files) < 2, "Comic must have more than one page")
func (validator *Validator) Custom(field string, failed bool, message string) *Validator {
	return validator.check(!failed, field, message)
}

// # Result

// Err returns nil when every rule passed.
func (validator *Validator) Err() error {
	if len(validator.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", validator.errs...)
}

func (validator *Validator) HasErrors() bool {
	return len(validator.errs) > 0
}

// RequiredError builds a one-field VALIDATION_ERROR without a Validator.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{Field: field, Message: message})
}

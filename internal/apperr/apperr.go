// Package apperr defines the structured business errors of the skill
// service. Every recoverable failure is an *Error carrying a Kind plus the
// offending id or qualifier, so the HTTP boundary can translate it into a
// precise response without inspecting message strings.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a business error.
type Kind string

const (
	CategoryMoveForbidden   Kind = "ERR_CATEGORY_MOVE_FORBIDDEN"
	CategoryDeleteForbidden Kind = "ERR_CATEGORY_DELETE_FORBIDDEN"
	CategoryAlreadyExists   Kind = "ERR_CATEGORY_ALREADY_EXISTS"
	CategoryCycle           Kind = "ERR_CATEGORY_CYCLE"
	CategoryNotFound        Kind = "ERR_CATEGORY_NOT_FOUND"
	SkillNotFound           Kind = "ERR_SKILL_NOT_FOUND"
	SkillAlreadyExists      Kind = "ERR_SKILL_ALREADY_EXISTS"
	ValidationFailed        Kind = "ERR_VALIDATION_FAILED"
	InvalidLocale           Kind = "ERR_INVALID_LOCALE"
)

// Error is a recoverable business error. ID is the offending entity id when
// one is known, nil otherwise.
type Error struct {
	Kind    Kind   `json:"errorType"`
	ID      *int   `json:"id"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Status returns the HTTP status code the error translates to at the
// transport boundary.
func (e *Error) Status() int {
	switch e.Kind {
	case CategoryNotFound, SkillNotFound:
		return http.StatusNotFound
	case CategoryAlreadyExists, SkillAlreadyExists, CategoryCycle,
		CategoryMoveForbidden, CategoryDeleteForbidden:
		return http.StatusConflict
	case ValidationFailed, InvalidLocale:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// As unwraps err into an *Error, or returns nil if err carries none.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e := As(err)
	return e != nil && e.Kind == kind
}

func withID(kind Kind, id int, message string) *Error {
	return &Error{Kind: kind, ID: &id, Message: message}
}

// CategoryNotFoundByID reports that no category exists for the given id.
func CategoryNotFoundByID(id int) *Error {
	return withID(CategoryNotFound, id, fmt.Sprintf("No skill category for ID %d found.", id))
}

// CategoryNotFoundByQualifier reports that no category exists for the
// given qualifier.
func CategoryNotFoundByQualifier(qualifier string) *Error {
	return &Error{Kind: CategoryNotFound, Message: fmt.Sprintf("No skill category for qualifier '%s' found.", qualifier)}
}

// SkillNotFoundByID reports that no skill exists for the given id.
func SkillNotFoundByID(id int) *Error {
	return withID(SkillNotFound, id, fmt.Sprintf("No skill for ID %d found.", id))
}

// SkillNotFoundByQualifier reports that no skill exists for the given
// qualifier.
func SkillNotFoundByQualifier(qualifier string) *Error {
	return &Error{Kind: SkillNotFound, Message: fmt.Sprintf("No skill for qualifier '%s' found.", qualifier)}
}

// CategoryExists reports a qualifier collision with an existing category.
func CategoryExists(id int, qualifier string) *Error {
	return withID(CategoryAlreadyExists, id, fmt.Sprintf("Category %s already exists.", qualifier))
}

// SkillExists reports a qualifier collision with an existing skill.
func SkillExists(id int, qualifier string) *Error {
	return withID(SkillAlreadyExists, id, fmt.Sprintf("Skill %s already exists!", qualifier))
}

// Validation reports a failed request validation for a named field.
func Validation(field, cause string) *Error {
	return &Error{Kind: ValidationFailed, Message: fmt.Sprintf("Request validation of %s failed with reason: %s", field, cause)}
}

// BadLocale reports an unresolvable ISO 639 code.
func BadLocale(code string) *Error {
	return &Error{Kind: InvalidLocale, Message: fmt.Sprintf("%s is not a valid ISO 639-2 code", code)}
}

// Cycle reports that moving a category under the given parent would create
// a cycle in the taxonomy.
func Cycle(id int, qualifier string) *Error {
	return withID(CategoryCycle, id, fmt.Sprintf("Moving category %s would create a cycle.", qualifier))
}

// DeleteForbidden reports an attempt to delete a non-custom category.
func DeleteForbidden(id int, qualifier string) *Error {
	return withID(CategoryDeleteForbidden, id, fmt.Sprintf("Category %s deletion is forbidden.", qualifier))
}

// MoveForbidden reports an attempt to move a move-protected category.
// Reserved for future non-custom-move restrictions.
func MoveForbidden(id int, qualifier string) *Error {
	return withID(CategoryMoveForbidden, id, fmt.Sprintf("Category %s moving is forbidden.", qualifier))
}

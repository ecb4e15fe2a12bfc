package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/HBTGmbH/pwr-skill-service/internal/apperr"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.CategoryNotFound, http.StatusNotFound},
		{apperr.SkillNotFound, http.StatusNotFound},
		{apperr.CategoryAlreadyExists, http.StatusConflict},
		{apperr.SkillAlreadyExists, http.StatusConflict},
		{apperr.CategoryCycle, http.StatusConflict},
		{apperr.CategoryMoveForbidden, http.StatusConflict},
		{apperr.CategoryDeleteForbidden, http.StatusConflict},
		{apperr.ValidationFailed, http.StatusBadRequest},
		{apperr.InvalidLocale, http.StatusBadRequest},
		{apperr.Kind("ERR_UNKNOWN"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			e := &apperr.Error{Kind: tc.kind}
			if got := e.Status(); got != tc.want {
				t.Errorf("Status() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAs(t *testing.T) {
	t.Run("unwraps a wrapped business error", func(t *testing.T) {
		inner := apperr.CategoryNotFoundByID(42)
		wrapped := fmt.Errorf("loading category: %w", inner)

		e := apperr.As(wrapped)
		if e == nil {
			t.Fatal("As returned nil for a wrapped *Error")
		}
		if e.Kind != apperr.CategoryNotFound {
			t.Errorf("kind = %q, want CategoryNotFound", e.Kind)
		}
		if e.ID == nil || *e.ID != 42 {
			t.Errorf("id = %v, want 42", e.ID)
		}
	})

	t.Run("returns nil for foreign errors", func(t *testing.T) {
		if e := apperr.As(errors.New("boom")); e != nil {
			t.Errorf("As = %v, want nil", e)
		}
		if e := apperr.As(nil); e != nil {
			t.Errorf("As(nil) = %v, want nil", e)
		}
	})
}

func TestIsKind(t *testing.T) {
	err := apperr.SkillExists(7, "Java")
	if !apperr.IsKind(err, apperr.SkillAlreadyExists) {
		t.Error("IsKind must match the error's own kind")
	}
	if apperr.IsKind(err, apperr.SkillNotFound) {
		t.Error("IsKind must not match a different kind")
	}
	if apperr.IsKind(errors.New("boom"), apperr.SkillNotFound) {
		t.Error("IsKind must not match a foreign error")
	}
}

func TestConstructors(t *testing.T) {
	t.Run("id carriers expose the offending id", func(t *testing.T) {
		tests := []struct {
			err  *apperr.Error
			kind apperr.Kind
		}{
			{apperr.CategoryNotFoundByID(1), apperr.CategoryNotFound},
			{apperr.SkillNotFoundByID(1), apperr.SkillNotFound},
			{apperr.CategoryExists(1, "x"), apperr.CategoryAlreadyExists},
			{apperr.SkillExists(1, "x"), apperr.SkillAlreadyExists},
			{apperr.Cycle(1, "x"), apperr.CategoryCycle},
			{apperr.DeleteForbidden(1, "x"), apperr.CategoryDeleteForbidden},
			{apperr.MoveForbidden(1, "x"), apperr.CategoryMoveForbidden},
		}
		for _, tc := range tests {
			if tc.err.Kind != tc.kind {
				t.Errorf("got kind %q, want %q", tc.err.Kind, tc.kind)
			}
			if tc.err.ID == nil || *tc.err.ID != 1 {
				t.Errorf("%q: id = %v, want 1", tc.kind, tc.err.ID)
			}
		}
	})

	t.Run("qualifier lookups carry no id", func(t *testing.T) {
		if e := apperr.CategoryNotFoundByQualifier("x"); e.ID != nil {
			t.Errorf("id = %v, want nil", e.ID)
		}
		if e := apperr.SkillNotFoundByQualifier("x"); e.ID != nil {
			t.Errorf("id = %v, want nil", e.ID)
		}
	})
}

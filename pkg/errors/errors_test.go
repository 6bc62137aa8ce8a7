package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeReportNotFound, "report missing")
	assert.Equal(t, ErrCodeReportNotFound, err.Code)
	assert.Equal(t, "report missing", err.Message)
	assert.NotEmpty(t, err.Stack)
	assert.Equal(t, "[RPT_001] report missing", err.Error())
}

func TestWithDetail(t *testing.T) {
	base := New(ErrCodeInsufficientData, "batch too small")
	detailed := base.WithDetail("k=5 reports=3")

	assert.Equal(t, "[ANA_001] batch too small: k=5 reports=3", detailed.Error())
	assert.Empty(t, base.Detail, "receiver must not be mutated")

	var nilErr *AppError
	assert.Nil(t, nilErr.WithDetail("ignored"))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeDatabaseError, "no-op"))

	cause := errors.New("connection refused")
	wrapped := Wrap(cause, ErrCodeDatabaseError, "failed to list reports")
	assert.Equal(t, cause, wrapped.Unwrap())
	assert.True(t, errors.Is(wrapped, cause))
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	inner := New(ErrCodeReportNotFound, "missing")
	outer := Wrap(fmt.Errorf("listing: %w", inner), CodeUnknown, "list failed")
	assert.Equal(t, ErrCodeReportNotFound, outer.Code)
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrCodeInsufficientData, "too few"))
	assert.True(t, IsCode(err, ErrCodeInsufficientData))
	assert.False(t, IsCode(err, ErrCodeComputeFailed))
	assert.False(t, IsCode(nil, ErrCodeInternal))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodeReportNotFound, "x")))
	assert.True(t, IsNotFound(NotFound("x")))
	assert.False(t, IsNotFound(Internal("x")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(InvalidParam("bad k")))
	assert.True(t, IsValidation(New(ErrCodeReportInvalidAgency, "nope")))
	assert.False(t, IsValidation(Internal("boom")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(errors.New("plain")))
	assert.Equal(t, ErrCodeComputeFailed, GetCode(ComputeFailed("nan centroid")))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatusForCode(ErrCodeInsufficientData))
	assert.Equal(t, http.StatusNotFound, HTTPStatusForCode(ErrCodeReportNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("BOGUS")))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "ANA", ModuleForCode(ErrCodeClusteringFailed))
	assert.Equal(t, "RPT", ModuleForCode(ErrCodeReportNotFound))
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
}

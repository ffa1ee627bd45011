package orrery

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceError(t *testing.T) {
	cause := errors.New("line 3: unexpected token")
	err := NewResourceError(ResourceShader, "body.wgsl", cause)

	assert.ErrorIs(t, err, ErrResourceUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `shader "body.wgsl" unavailable: line 3: unexpected token`, err.Error())

	wrapped := fmt.Errorf("init: %w", err)
	var re *ResourceError
	assert.True(t, errors.As(wrapped, &re))
	assert.Equal(t, "line 3: unexpected token", re.Diagnostic)
}

func TestResourceError_NoCause(t *testing.T) {
	err := NewResourceError(ResourceImage, "earth.png", nil)
	assert.ErrorIs(t, err, ErrResourceUnavailable)
	assert.Equal(t, `image "earth.png" unavailable`, err.Error())
}

func TestInvalidArgumentf(t *testing.T) {
	err := InvalidArgumentf("radius %v", -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "radius -1")
}

func TestPlatformInitf(t *testing.T) {
	cause := errors.New("no display")
	err := PlatformInitf(cause, "glfw init")
	assert.ErrorIs(t, err, ErrPlatformInit)
	assert.ErrorIs(t, err, cause)

	assert.ErrorIs(t, PlatformInitf(nil, "no adapter"), ErrPlatformInit)
}

package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mauv0809/super-palm-tree/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(apperr.NotFound("map")))
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(apperr.Unauthorized("nope")))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(apperr.Forbidden("nope")))
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(apperr.Invalid("bad input")))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(apperr.Internal(errors.New("boom"))))

	// Unclassified errors fall through to Internal.
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("plain")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("while handling request: %w", apperr.NotFound("archive"))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestIsKindNilError(t *testing.T) {
	assert.False(t, apperr.IsKind(nil, apperr.KindInternal))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "archive not found", apperr.NotFound("archive").Message)
	assert.Equal(t, "value for dimension d1 must be a finite number", apperr.Invalidf("value for dimension %s must be a finite number", "d1").Message)
}

func TestInternalWraps(t *testing.T) {
	cause := errors.New("disk on fire")
	err := apperr.Internal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk on fire")
}

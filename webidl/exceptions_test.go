package webidl

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestDOMExceptionClassification(t *testing.T) {
	sec := SecurityError("denied")
	syn := SyntaxError("bad input")

	assert.True(t, IsSecurityError(sec))
	assert.False(t, IsSyntaxError(sec))
	assert.True(t, IsSyntaxError(syn))
	assert.False(t, IsSecurityError(syn))
	assert.False(t, IsSecurityError(nil))
	assert.False(t, IsSecurityError(errors.New("plain")))
}

func TestDOMExceptionSurvivesWrapping(t *testing.T) {
	err := errors.Wrap(SecurityError("denied"), "navigate")
	assert.True(t, IsSecurityError(err))
	assert.Equal(t, "navigate: SecurityError: denied", err.Error())
}

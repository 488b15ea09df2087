package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yusuf/schoolregistry/internal/app/auth"
)

func TestGateAuthorize(t *testing.T) {
	gate := auth.NewGate("secret123")

	assert.True(t, gate.Authorize("secret123"))
	assert.False(t, gate.Authorize("secret124"))
	assert.False(t, gate.Authorize(""))
}

func TestGateEmptySecretDeniesAll(t *testing.T) {
	gate := auth.NewGate("")

	assert.False(t, gate.Authorize(""))
	assert.False(t, gate.Authorize("anything"))
}

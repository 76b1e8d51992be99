package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsProdLike(t *testing.T) {
	for _, env := range []string{"prod", "production", "release", " Prod ", "RELEASE"} {
		assert.True(t, isProdLike(env), env)
	}
	for _, env := range []string{"", "dev", "development", "test", "local"} {
		assert.False(t, isProdLike(env), env)
	}
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New("production"))
	assert.NotNil(t, New("development"))
}

package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/recipes-auth/config"
)

func TestDB_InitializesOnce(t *testing.T) {
	SetConfig(nil)
	_, err := DB(context.Background())
	assert.ErrorIs(t, err, errNoConfig)

	// The first outcome sticks; no reconnect attempt is made later.
	SetConfig(&config.Config{DBHost: "localhost"})
	pool, err := DB(context.Background())
	assert.Nil(t, pool)
	assert.ErrorIs(t, err, errNoConfig)

	assert.NotPanics(t, CloseDB)
}

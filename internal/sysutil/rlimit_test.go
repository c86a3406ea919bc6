package sysutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRlimitNofile(t *testing.T) {
	cur, err := RlimitNofile()
	require.NoError(t, err)
	assert.Positive(t, cur)
}

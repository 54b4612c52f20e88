package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLite(t *testing.T) {
	d, err := Connect("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(d) })

	var one int
	require.NoError(t, d.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestConnect_Errors(t *testing.T) {
	_, err := Connect("sqlite", "")
	assert.ErrorContains(t, err, "empty")

	_, err = Connect("oracle", "whatever")
	assert.ErrorContains(t, err, "unsupported")

	_, err = Connect("postgres", "://not a url")
	assert.ErrorContains(t, err, "parse database url")
}

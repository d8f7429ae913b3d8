package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames_SortedAndPaired(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_init", names[0])

	for _, n := range names {
		_, err := files.ReadFile("sql/" + n + ".down.sql")
		assert.NoError(t, err, "missing down migration for %s", n)
	}
}

package bounds

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestMarkedErrors(t *testing.T) {
	err := OutOfRangef("index %d, len %d", 4, 2)
	require.True(t, errors.Is(err, ErrOutOfRange))
	require.False(t, errors.Is(err, ErrLength))
	require.Equal(t, "index 4, len 2", err.Error())

	err = errors.Wrap(Lengthf("need %d", 9), "reserve")
	require.True(t, errors.Is(err, ErrLength))
	require.False(t, errors.Is(err, ErrOutOfRange))
}

package motion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSpeeds(t *testing.T) {
	v, err := ParseInt8("SPEED", "-128")
	require.NoError(t, err)
	require.Equal(t, int8(-128), v)
	_, err = ParseInt8("SPEED", "128")
	require.Error(t, err)

	u, err := ParseUint8("COUNT", "255")
	require.NoError(t, err)
	require.Equal(t, uint8(255), u)
	_, err = ParseUint8("COUNT", "-1")
	require.Error(t, err)
}

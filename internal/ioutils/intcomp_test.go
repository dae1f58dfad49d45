package ioutils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripInts64(t *testing.T) {
	input := []int64{0, 1, 2, 3, -1, 42, -1, 1 << 40, 7}
	var buf bytes.Buffer
	_, err := CompressAndWriteInts64(&buf, input, nil)
	require.NoError(t, err)

	n, got, err := ReadAndDecompressInts64(&buf)
	require.NoError(t, err)
	assert.Greater(t, n, 8)
	assert.Equal(t, input, got)
}

func TestRoundTripEmpty(t *testing.T) {
	var buf bytes.Buffer
	_, err := CompressAndWriteInts64(&buf, nil, nil)
	require.NoError(t, err)
	_, got, err := ReadAndDecompressInts64(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

package huffman

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeString(w io.Writer, s string) error {
	b := []byte(s)
	if _, err := w.Write([]byte{byte(len(b))}); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readString(r *bufio.Reader) (string, error) {
	l, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	buf := make([]byte, l)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func TestWriteReadBitsPerFragmentCodingRoundTrip(t *testing.T) {
	freq := map[string]uint32{"d": 12, "e": 11, "f": 10, "a": 3, "b": 2, "c": 1}
	c := FromFrequencies[string](BitsPerFragment(1), freq)

	buf := new(bytes.Buffer)
	require.NoError(t, c.Write(buf, writeString))

	got, err := ReadBitsPerFragmentCoding[string](bufio.NewReader(buf), readString)
	require.NoError(t, err)
	require.Equal(t, c.Values, got.Values)
	require.Equal(t, c.InternalNodesCount, got.InternalNodesCount)
	require.Equal(t, c.Degree, got.Degree)
}

func TestWriteReadGeneralDegreeCodingRoundTrip(t *testing.T) {
	freq := map[string]uint32{"d": 12, "e": 11, "a": 3, "b": 2, "c": 1}
	c := FromFrequencies[string](GeneralDegree(3), freq)

	buf := new(bytes.Buffer)
	require.NoError(t, c.Write(buf, writeString))

	got, err := ReadGeneralDegreeCoding[string](bufio.NewReader(buf), readString)
	require.NoError(t, err)
	require.Equal(t, c.Values, got.Values)
	require.Equal(t, c.InternalNodesCount, got.InternalNodesCount)
	require.Equal(t, c.Degree, got.Degree)
}

func TestReadGeneralDegreeCodingRejectsTruncatedStream(t *testing.T) {
	freq := map[string]uint32{"d": 12, "e": 11, "a": 3, "b": 2, "c": 1}
	c := FromFrequencies[string](GeneralDegree(3), freq)

	buf := new(bytes.Buffer)
	require.NoError(t, c.Write(buf, writeString))

	truncated := buf.Bytes()[:buf.Len()-1]
	_, err := ReadGeneralDegreeCoding[string](bufio.NewReader(bytes.NewReader(truncated)), readString)
	require.Error(t, err)
}

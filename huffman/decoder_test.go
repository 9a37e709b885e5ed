package huffman

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDecoderRoundTripAllValues feeds every value's own codeword back
// through a fresh decoder and checks it reproduces exactly that value,
// with Incomplete returned for every fragment but the last (property 3).
func TestDecoderRoundTripAllValues(t *testing.T) {
	freq := map[string]uint32{
		"d": 12, "e": 11, "f": 10, "a": 3, "b": 2, "c": 1,
	}
	for _, degree := range []Degree{BitsPerFragment(1), BitsPerFragment(2), GeneralDegree(3), GeneralDegree(5)} {
		c := FromFrequencies[string](degree, freq)
		it := c.Codes()
		for {
			value, code, ok := it.Next()
			if !ok {
				break
			}
			d := c.Decoder()
			fragments := unpackFragments(code, degree.AsU32())
			var (
				got    string
				status Status
			)
			for i, f := range fragments {
				got, status = d.Consume(f)
				if i < len(fragments)-1 {
					require.Equal(t, Incomplete, status, "value %q fragment %d", value, i)
				}
			}
			require.Equal(t, Decoded, status, "value %q", value)
			require.Equal(t, value, got)
		}
	}
}

// unpackFragments splits code.Bits into code.Fragments base-d digits,
// most significant first, matching the order Consume expects.
func unpackFragments(code Code, d uint32) []uint32 {
	fragments := make([]uint32, code.Fragments)
	bits := code.Bits
	for i := int(code.Fragments) - 1; i >= 0; i-- {
		fragments[i] = bits % d
		bits /= d
	}
	return fragments
}

func TestConsumeCheckedRejectsOutOfRangeFragment(t *testing.T) {
	c := FromFrequencies[string](BitsPerFragment(1), map[string]uint32{"a": 1, "b": 1})
	d := c.Decoder()
	_, status := d.ConsumeChecked(2)
	require.Equal(t, Invalid, status)
}

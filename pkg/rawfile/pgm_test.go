package rawfile

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGMRoundTrip(t *testing.T) {
	f := &Frame{
		Width:  3,
		Height: 2,
		Bits:   16,
		Pix:    []uint16{0, 1, 256, 1024, 40000, 65535},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePGM(&buf, f))

	got, err := ReadPGM(&buf)
	require.NoError(t, err)
	assert.Equal(t, f.Width, got.Width)
	assert.Equal(t, f.Height, got.Height)
	assert.Equal(t, f.Bits, got.Bits)
	assert.Equal(t, f.Pix, got.Pix)
}

func TestReadPGM8Bit(t *testing.T) {
	data := []byte("P5\n# a comment\n2 2\n255\n")
	data = append(data, 0, 10, 200, 255)

	f, err := ReadPGM(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, f.Width)
	assert.Equal(t, 2, f.Height)
	assert.Equal(t, uint(8), f.Bits)
	assert.Equal(t, []uint16{0, 10, 200, 255}, f.Pix)
}

func TestReadPGMBitDepthFromMaxval(t *testing.T) {
	for maxval, bits := range map[int]uint{255: 8, 4095: 12, 16383: 14, 65535: 16} {
		header := []byte("P5\n1 1\n" + strconv.Itoa(maxval) + "\n")
		if maxval > 255 {
			header = append(header, 0, 1)
		} else {
			header = append(header, 1)
		}

		f, err := ReadPGM(bytes.NewReader(header))
		require.NoError(t, err)
		assert.Equal(t, bits, f.Bits, "maxval %d", maxval)
	}
}

func TestReadPGMRejectsBadInput(t *testing.T) {
	cases := map[string][]byte{
		"wrong magic":    []byte("P6\n1 1\n255\n\x00"),
		"zero width":     []byte("P5\n0 1\n255\n"),
		"huge maxval":    []byte("P5\n1 1\n100000\n\x00\x00"),
		"truncated data": []byte("P5\n4 4\n65535\n\x00\x01"),
		"empty":          {},
	}

	for name, data := range cases {
		_, err := ReadPGM(bytes.NewReader(data))
		assert.Error(t, err, name)
	}
}

package cpp

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexByte = regexp.MustCompile(`0x([0-9a-f]{2}),`)

func parseArray(t *testing.T, s string) []byte {
	b := []byte{}
	for _, m := range hexByte.FindAllStringSubmatch(s, -1) {
		v, err := strconv.ParseUint(m[1], 16, 8)
		require.NoError(t, err)
		b = append(b, byte(v))
	}
	return b
}

func TestWriteArray(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16, 17, 1000} {
		in := make([]byte, n)
		for i := range in {
			in[i] = byte(i*7 + 3)
		}

		buf := new(bytes.Buffer)
		require.NoError(t, WriteArray(buf, in))
		out := buf.String()

		assert.Equal(t, in, parseArray(t, out), "length %d", n)

		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		rows := (n + bytesPerRow - 1) / bytesPerRow
		if rows == 0 {
			rows = 1
		}
		require.Len(t, lines, rows, "length %d", n)
		for i, line := range lines {
			assert.True(t, strings.HasPrefix(line, indent), "length %d line %d", n, i)
			want := bytesPerRow
			if i == rows-1 && n%bytesPerRow != 0 {
				want = n % bytesPerRow
			}
			if n == 0 {
				want = 0
			}
			assert.Equal(t, want, strings.Count(line, "0x"), "length %d line %d", n, i)
		}
	}
}

func TestWriteArrayFormat(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, WriteArray(buf, []byte{0x00, 0x0f, 0xa0, 0xff}))
	assert.Equal(t, "    0x00,0x0f,0xa0,0xff,\n", buf.String())
}

package snapshot

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	require.True(t, Text("hello").Equal(Text("hello")))
	require.False(t, Text("hello").Equal(Text("world")))

	img := []byte{0x89, 'P', 'N', 'G'}
	require.True(t, Image(img, "image/png").Equal(Image(img, "image/png")))
	require.False(t, Image(img, "image/png").Equal(Image(img, "image/tiff")))

	// Same bytes, different kind: not equal.
	require.False(t, Text("PNG").Equal(Image([]byte("PNG"), "image/png")))
}

func TestNoneEquality(t *testing.T) {
	require.True(t, None().Equal(None()))
	// Zero value counts as none.
	require.True(t, Snapshot{}.Equal(None()))
	require.False(t, None().Equal(Text("")))
}

func TestJSONRoundTrip(t *testing.T) {
	in := Image([]byte{0x00, 0x01, 0xff, 0xfe}, "image/png")
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out Snapshot
	require.NoError(t, json.Unmarshal(raw, &out))
	require.True(t, in.Equal(out))
}

func TestJSONNone(t *testing.T) {
	raw, err := json.Marshal(Snapshot{})
	require.NoError(t, err)

	var out Snapshot
	require.NoError(t, json.Unmarshal(raw, &out))
	require.True(t, out.IsNone())
}

func TestPreviewTruncates(t *testing.T) {
	long := strings.Repeat("a", 500)
	p := Text(long).Preview()
	require.Less(t, len(p), 200)
	require.True(t, strings.HasSuffix(p, "…"))
}

func TestPreviewCutsOnRuneBoundary(t *testing.T) {
	// Byte 120 lands mid-rune: boundaries fall at 1+3k offsets.
	long := "a" + strings.Repeat("日", 100)
	p := Text(long).Preview()
	require.True(t, utf8.ValidString(p))
	require.True(t, strings.HasSuffix(p, "…"))
	require.LessOrEqual(t, len(p), 120+len("…"))
}

func TestPreviewImage(t *testing.T) {
	p := Image(make([]byte, 42), "image/png").Preview()
	require.Contains(t, p, "image/png")
	require.Contains(t, p, "42")
}

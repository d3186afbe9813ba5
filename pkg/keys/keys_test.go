package keys

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidKey(t *testing.T) {
	parsed, err := Parse("L21_V003/042.jpg")
	require.NoError(t, err)
	assert.Equal(t, "L21", parsed.Group)
	assert.Equal(t, "V003", parsed.Video)
	assert.Equal(t, 42, parsed.Frame)
}

func TestParseUnpaddedFrame(t *testing.T) {
	parsed, err := Parse("A1_B2/7.jpg")
	require.NoError(t, err)
	assert.Equal(t, "A1", parsed.Group)
	assert.Equal(t, "B2", parsed.Video)
	assert.Equal(t, 7, parsed.Frame)
}

func TestParseInvalidKeys(t *testing.T) {
	testCases := []struct {
		key     string
		message string
	}{
		{"L21V001/001.jpg", "missing underscore"},
		{"L21_V001_001.jpg", "underscore instead of slash"},
		{"L21_V001/001.png", "wrong extension"},
		{"L21_V001/001", "no extension"},
		{"l21_V001/001.jpg", "lowercase group"},
		{"L21_v001/001.jpg", "lowercase video"},
		{"L_V001/001.jpg", "group without digits"},
		{"L21_V001/abc.jpg", "non-numeric frame"},
		{"", "empty key"},
		{"L21_V001/001.jpg/extra", "trailing segment"},
	}

	for _, tc := range testCases {
		_, err := Parse(tc.key)
		require.Error(t, err, tc.message)

		var parseErr ParseError
		require.True(t, errors.As(err, &parseErr), tc.message)
		assert.Equal(t, tc.key, parseErr.Key, tc.message)
	}
}

func TestBuildRoundTrip(t *testing.T) {
	key := Build("L21", "V001", 42)
	assert.Equal(t, "L21_V001/042.jpg", key)

	parsed, err := Parse(key)
	require.NoError(t, err)
	assert.Equal(t, ParsedKey{Group: "L21", Video: "V001", Frame: 42}, parsed)
}

func TestBuildWideFrame(t *testing.T) {
	// Frame numbers past the pad width are not truncated.
	key := Build("L21", "V001", 12345)
	assert.Equal(t, "L21_V001/12345.jpg", key)

	parsed, err := Parse(key)
	require.NoError(t, err)
	assert.Equal(t, 12345, parsed.Frame)
}

func TestFrameID(t *testing.T) {
	parsed := ParsedKey{Group: "L21", Video: "V003", Frame: 4}
	assert.Equal(t, "L21_V003/004", parsed.FrameID())
}

func TestVideoName(t *testing.T) {
	parsed := ParsedKey{Group: "L21", Video: "V003", Frame: 4}
	assert.Equal(t, "L21_V003", parsed.VideoName())
}

func TestValidateID(t *testing.T) {
	assert.True(t, ValidateID("L21"))
	assert.True(t, ValidateID("V001"))
	assert.True(t, ValidateID("A1"))
	assert.False(t, ValidateID("l21"))
	assert.False(t, ValidateID("21L"))
	assert.False(t, ValidateID("L"))
	assert.False(t, ValidateID(""))
	assert.False(t, ValidateID("L21_V001"))
	assert.False(t, ValidateID("L21;DROP"))
}

func TestPrefixes(t *testing.T) {
	assert.Equal(t, "L21_", GroupPrefix("L21"))
	assert.Equal(t, "L21_V001/", VideoPrefix("L21", "V001"))
}

func TestParseIsDeterministic(t *testing.T) {
	first, err := Parse("L21_V001/001.jpg")
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		again, err := Parse("L21_V001/001.jpg")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

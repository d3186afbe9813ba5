package navstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStateEncodesEmpty(t *testing.T) {
	assert.Equal(t, "", Default().Encode())
}

func TestEncodeOmitsDefaults(t *testing.T) {
	s := Default()
	s.Group = "L21"
	assert.Equal(t, "group=L21", s.Encode())

	s.Video = "V001"
	assert.Equal(t, "group=L21&video=V001", s.Encode())

	s.Page = 2
	assert.Equal(t, "group=L21&video=V001&page=2", s.Encode())
}

func TestEncodeNonDefaultPresentation(t *testing.T) {
	s := Default()
	s.Group = "L21"
	s.View = ViewList
	s.ThumbSize = ThumbLarge
	s.PageSize = 100
	assert.Equal(t, "group=L21&view=list&size=large&limit=100", s.Encode())
}

func TestParseEmptyQuery(t *testing.T) {
	s, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	testCases := []string{
		"group=l21",
		"group=L21&video=v1",
		"video=V001", // video without group is unreachable
		"group=L21&page=0",
		"group=L21&page=abc",
		"group=L21&view=mosaic",
		"group=L21&size=tiny",
		"group=L21&limit=37",
		"group=L21&limit=-1",
	}
	for _, query := range testCases {
		_, err := Parse(query)
		assert.Error(t, err, query)
	}
}

func TestParseIgnoresUnknownParams(t *testing.T) {
	s, err := Parse("group=L21&utm_source=share")
	require.NoError(t, err)
	assert.Equal(t, "L21", s.Group)
}

func TestRoundTrip(t *testing.T) {
	// Every reachable state must survive Encode -> Parse unchanged.
	states := []State{
		Default(),
		{Group: "L21", Page: 1, View: ViewGrid, ThumbSize: ThumbMedium, PageSize: 50},
		{Group: "L21", Video: "V001", Page: 1, View: ViewGrid, ThumbSize: ThumbMedium, PageSize: 50},
		{Group: "L21", Video: "V001", Page: 7, View: ViewList, ThumbSize: ThumbSmall, PageSize: 25},
		{Group: "L03", Video: "V120", Page: 2, View: ViewGrid, ThumbSize: ThumbLarge, PageSize: 100},
		{Group: "L99", Page: 1, View: ViewList, ThumbSize: ThumbMedium, PageSize: 50},
	}

	for _, want := range states {
		got, err := Parse(want.Encode())
		require.NoError(t, err, want.Encode())
		assert.Equal(t, want, got, want.Encode())
	}
}

func TestPhase(t *testing.T) {
	s := Default()
	assert.Equal(t, Root, s.Phase())

	s.Group = "L21"
	assert.Equal(t, GroupSelected, s.Phase())

	s.Video = "V001"
	assert.Equal(t, VideoSelected, s.Phase())
}

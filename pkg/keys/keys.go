// Package keys parses flat record keys into their (group, video, frame)
// components. The key grammar lives here and nowhere else; aggregation code
// never inspects key strings directly.
package keys

import (
	"fmt"
	"regexp"
	"strconv"
)

// keyPattern is the single source of truth for the key grammar:
// GROUP_VIDEO/NNN.jpg where GROUP and VIDEO are an uppercase letter followed
// by digits, e.g. L21_V003/042.jpg.
var keyPattern = regexp.MustCompile(`^([A-Z]\d+)_([A-Z]\d+)/(\d+)\.jpg$`)

// idPattern validates a bare group or video identifier, e.g. L21 or V003.
var idPattern = regexp.MustCompile(`^[A-Z]\d+$`)

// framePadWidth is the zero-pad width used when building keys.
const framePadWidth = 3

// ParseError is returned for a key that does not match the grammar. It is a
// per-record condition: callers skip the record and count the failure, they
// never abort a batch over it.
type ParseError struct {
	Key string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("unparseable record key: %q", e.Key)
}

// ParsedKey is the structured result of parsing a record key.
type ParsedKey struct {
	Group string
	Video string
	Frame int
}

// Parse splits a record key into its components. It is pure and safe for
// concurrent use. Returns a ParseError for keys outside the grammar.
func Parse(key string) (ParsedKey, error) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return ParsedKey{}, ParseError{Key: key}
	}

	frame, err := strconv.Atoi(m[3])
	if err != nil {
		// The regex only admits digits; this fires on overflow-sized input.
		return ParsedKey{}, ParseError{Key: key}
	}

	return ParsedKey{Group: m[1], Video: m[2], Frame: frame}, nil
}

// Build constructs a record key from components, zero-padding the frame
// number. It is the inverse of Parse for frame numbers under 1000.
func Build(group, video string, frame int) string {
	return fmt.Sprintf("%s_%s/%0*d.jpg", group, video, framePadWidth, frame)
}

// FrameID is the canonical frame identifier used in API payloads: the
// zero-padded key without its extension.
func (p ParsedKey) FrameID() string {
	return fmt.Sprintf("%s_%s/%0*d", p.Group, p.Video, framePadWidth, p.Frame)
}

// VideoName is the display name of the video a key belongs to, e.g. L21_V003.
func (p ParsedKey) VideoName() string {
	return p.Group + "_" + p.Video
}

// ValidateID reports whether id is a well-formed group or video identifier.
func ValidateID(id string) bool {
	return idPattern.MatchString(id)
}

// GroupPrefix returns the key-prefix shared by every record in a group.
func GroupPrefix(group string) string {
	return group + "_"
}

// VideoPrefix returns the key-prefix shared by every record in a video.
func VideoPrefix(group, video string) string {
	return group + "_" + video + "/"
}

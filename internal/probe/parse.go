package probe

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedOutput is returned when probe text does not follow the
// bracketed section format.
var ErrMalformedOutput = errors.New("malformed probe output")

var (
	reOpenTag  = regexp.MustCompile(`^\[([A-Z_]+)\]$`)
	reCloseTag = regexp.MustCompile(`^\[/([A-Z_]+)\]$`)
)

// openRecord is a section that has been opened but not yet closed.
type openRecord struct {
	tag    string
	record Record
}

// Parse converts raw ffprobe output into Sections.
//
// A close tag finishes the innermost open record and files it under the tag
// it was opened with; the name inside the close tag is not checked. Nested
// blocks (ffprobe's [SIDE_DATA] inside [STREAM]) are filed separately and do
// not disturb the enclosing record.
//
// A key=value line is split on the first '='. The value stops at the next
// '=', so "TAG:comment=a=b" yields value "a". This matches the behavior
// existing playlists were validated against.
func Parse(data []byte) (Sections, error) {
	sections := make(Sections)
	var stack []openRecord

	for i, raw := range strings.Split(string(data), "\n") {
		lineNo := i + 1
		line := strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := reOpenTag.FindStringSubmatch(line); m != nil {
			stack = append(stack, openRecord{tag: m[1]})
			continue
		}

		if reCloseTag.MatchString(line) {
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: line %d: %s without an open section", ErrMalformedOutput, lineNo, line)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			sections[top.tag] = append(sections[top.tag], top.record)
			continue
		}

		if len(stack) == 0 {
			return nil, fmt.Errorf("%w: line %d: field outside of a section", ErrMalformedOutput, lineNo)
		}
		key, rest, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: expected key=value, got %q", ErrMalformedOutput, lineNo, line)
		}
		value, _, _ := strings.Cut(rest, "=")
		stack[len(stack)-1].record.Set(key, value)
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: [%s] is never closed", ErrMalformedOutput, stack[len(stack)-1].tag)
	}
	return sections, nil
}

// Serialize renders sections in the bracketed format: tags in name order,
// records and fields in their stored order. Parse(Serialize(s)) equals s for
// any s whose tags match [A-Z_]+ and whose keys and values contain no '=' or
// newline.
func Serialize(s Sections) []byte {
	var buf bytes.Buffer
	for _, tag := range s.tags() {
		for _, rec := range s[tag] {
			fmt.Fprintf(&buf, "[%s]\n", tag)
			for _, f := range rec.Fields {
				fmt.Fprintf(&buf, "%s=%s\n", f.Key, f.Value)
			}
			fmt.Fprintf(&buf, "[/%s]\n", tag)
		}
	}
	return buf.Bytes()
}

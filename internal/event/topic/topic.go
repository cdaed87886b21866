package topic

import (
	"fmt"
	"strings"
)

// Topic is a dotted event name such as "session.user.joined".
type Topic string

// Wildcard and separator tokens used in patterns.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator splits a name into segments.
	Separator = "."
)

// String returns the name as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the name split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Namespace returns everything before the last segment.
//
// Example: "session.user.joined" -> "session.user"
func (t Topic) Namespace() Topic {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return ""
	}
	return Topic(s[:idx])
}

// IsWildcard reports whether the name contains a wildcard segment.
func (t Topic) IsWildcard() bool {
	for _, seg := range t.Segments() {
		if seg == WildcardSingle || seg == WildcardMulti {
			return true
		}
	}
	return false
}

// Validate checks that the name is usable for a declared event.
// Wildcard segments are rejected; they only belong in patterns.
func (t Topic) Validate() error {
	if err := t.ValidatePattern(); err != nil {
		return err
	}
	if t.IsWildcard() {
		return fmt.Errorf("event name %q must not contain wildcards", string(t))
	}
	return nil
}

// ValidatePattern checks that the name is well formed, allowing wildcards.
func (t Topic) ValidatePattern() error {
	s := string(t)
	if s == "" {
		return fmt.Errorf("event name is empty")
	}
	for i, seg := range t.Segments() {
		if seg == "" {
			return fmt.Errorf("event name %q has an empty segment at position %d", s, i)
		}
		if strings.ContainsAny(seg, " \t\n") {
			return fmt.Errorf("event name %q has whitespace in segment %q", s, seg)
		}
	}
	return nil
}

// IsValid reports whether Validate returns nil.
func (t Topic) IsValid() bool {
	return t.Validate() == nil
}

// Matches reports whether the name matches pattern.
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
func (t Topic) Matches(pattern Topic) bool {
	return matchSegments(t.Segments(), pattern.Segments())
}

func matchSegments(name, pattern []string) bool {
	ni, pi := 0, 0

	for pi < len(pattern) {
		if pattern[pi] == WildcardMulti {
			for ni <= len(name) {
				if matchSegments(name[ni:], pattern[pi+1:]) {
					return true
				}
				ni++
			}
			return false
		}

		if ni >= len(name) {
			return false
		}

		if pattern[pi] != WildcardSingle && pattern[pi] != name[ni] {
			return false
		}
		ni++
		pi++
	}

	return ni == len(name)
}

// Join joins segments into a name.
func Join(segments ...string) Topic {
	return Topic(strings.Join(segments, Separator))
}

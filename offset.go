package gotalign

import "unicode/utf16"

// Positions are UTF-16 code units, the native indexing of text widgets and
// browser selections. Byte offsets index the UTF-8 encoding the engine
// segments. Nothing outside this file compares the two directly.

// codeUnits returns the number of UTF-16 code units needed for r.
// Invalid bytes decode to U+FFFD and count as one unit.
func codeUnits(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

// CodeUnitLen returns the length of text in UTF-16 code units.
func CodeUnitLen(text string) int {
	n := 0
	for _, r := range text {
		n += codeUnits(r)
	}
	return n
}

// PositionToOffset converts a code-unit position into a byte offset in text.
// Position CodeUnitLen(text) maps to len(text). Negative positions, positions
// past the end and positions inside a surrogate pair are rejected.
func PositionToOffset(text string, position int) (int, error) {
	if position < 0 {
		return 0, &BoundaryError{Kind: "position", Value: position, Limit: CodeUnitLen(text), Cause: "negative"}
	}

	units := 0
	for offset, r := range text {
		if units == position {
			return offset, nil
		}
		units += codeUnits(r)
		if units > position {
			return 0, &BoundaryError{Kind: "position", Value: position, Limit: CodeUnitLen(text), Cause: "splits a surrogate pair"}
		}
	}

	if units == position {
		return len(text), nil
	}
	return 0, &BoundaryError{Kind: "position", Value: position, Limit: units, Cause: "past end of text"}
}

// OffsetToPosition converts a byte offset in text into a code-unit position.
// The offset must lie in [0, len(text)] and on the first byte of a code point.
// Each invalid byte is a code point of its own, so stray continuation bytes
// are valid boundaries.
func OffsetToPosition(text string, offset int) (int, error) {
	if offset < 0 {
		return 0, &BoundaryError{Kind: "offset", Value: offset, Limit: len(text), Cause: "negative"}
	}
	if offset > len(text) {
		return 0, &BoundaryError{Kind: "offset", Value: offset, Limit: len(text), Cause: "past end of text"}
	}

	units := 0
	for i, r := range text {
		if i == offset {
			return units, nil
		}
		if i > offset {
			return 0, &BoundaryError{Kind: "offset", Value: offset, Limit: len(text), Cause: "inside a multi-byte character"}
		}
		units += codeUnits(r)
	}
	return units, nil
}

package domain

import "strconv"

// AnswerKind discriminates how a CorrectAnswer value should be interpreted.
type AnswerKind int

const (
	// KeyNone means the question carries no answer key.
	KeyNone AnswerKind = iota
	// KeyIndex means the key is a position in the options slice.
	KeyIndex
	// KeyText means the key is the expected answer text itself.
	KeyText
)

// AnswerKey is the parsed form of a question's CorrectAnswer field.
type AnswerKey struct {
	Kind  AnswerKind
	Index int
	Text  string
}

// ParseAnswerKey resolves the raw CorrectAnswer value once, at the boundary.
// A base-10 non-negative integer that fits inside the option range is an
// index key; everything else non-empty is a text key. A numeric value out of
// range is treated as text rather than silently clamped.
func ParseAnswerKey(raw string, optionCount int) AnswerKey {
	if raw == "" {
		return AnswerKey{Kind: KeyNone}
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n < optionCount {
		return AnswerKey{Kind: KeyIndex, Index: n}
	}
	return AnswerKey{Kind: KeyText, Text: raw}
}

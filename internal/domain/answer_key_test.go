package domain

import "testing"

func TestParseAnswerKey(t *testing.T) {
	cases := []struct {
		name        string
		raw         string
		optionCount int
		want        AnswerKey
	}{
		{"index in range", "1", 3, AnswerKey{Kind: KeyIndex, Index: 1}},
		{"index zero", "0", 2, AnswerKey{Kind: KeyIndex, Index: 0}},
		{"index out of range is text", "5", 3, AnswerKey{Kind: KeyText, Text: "5"}},
		{"negative is text", "-1", 3, AnswerKey{Kind: KeyText, Text: "-1"}},
		{"option text", "Paris", 0, AnswerKey{Kind: KeyText, Text: "Paris"}},
		{"numeric but no options", "2", 0, AnswerKey{Kind: KeyText, Text: "2"}},
		{"empty", "", 3, AnswerKey{Kind: KeyNone}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseAnswerKey(tc.raw, tc.optionCount); got != tc.want {
				t.Fatalf("ParseAnswerKey(%q, %d) = %+v, want %+v", tc.raw, tc.optionCount, got, tc.want)
			}
		})
	}
}

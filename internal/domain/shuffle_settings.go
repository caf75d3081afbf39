package domain

import "encoding/json"

// ShuffleSettings controls whether question order and option order are
// randomized per trainee. It is the canonical internal form; the dual
// camelCase/snake_case naming used by quiz templates is normalized away in
// UnmarshalJSON and never leaks past this type.
type ShuffleSettings struct {
	Questions bool
	Options   bool
}

type shuffleSettingsDoc struct {
	ShuffleQuestions      *bool `json:"shuffleQuestions,omitempty"`
	ShuffleQuestionsSnake *bool `json:"shuffle_questions,omitempty"`
	ShuffleOptions        *bool `json:"shuffleOptions,omitempty"`
	ShuffleOptionsSnake   *bool `json:"shuffle_options,omitempty"`
}

// UnmarshalJSON accepts both flag spellings found in stored templates and
// ORs them together.
func (s *ShuffleSettings) UnmarshalJSON(data []byte) error {
	var doc shuffleSettingsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	s.Questions = isSet(doc.ShuffleQuestions) || isSet(doc.ShuffleQuestionsSnake)
	s.Options = isSet(doc.ShuffleOptions) || isSet(doc.ShuffleOptionsSnake)
	return nil
}

// MarshalJSON always writes the camelCase spelling.
func (s ShuffleSettings) MarshalJSON() ([]byte, error) {
	return json.Marshal(shuffleSettingsDoc{
		ShuffleQuestions: &s.Questions,
		ShuffleOptions:   &s.Options,
	})
}

func isSet(b *bool) bool {
	return b != nil && *b
}

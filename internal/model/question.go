package model

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionRadio     QuestionType = "radio"
	QuestionSelect    QuestionType = "select"
	QuestionCheckbox  QuestionType = "checkbox"
	QuestionText      QuestionType = "text"
	QuestionParagraph QuestionType = "paragraph"
	QuestionScale     QuestionType = "scale"
	QuestionDate      QuestionType = "date"
	QuestionTime      QuestionType = "time"
)

// Branchable reports whether answers to this question type may drive a
// branching rule. All known types branch; free-text and date/time
// answers participate via string comparison.
func (t QuestionType) Branchable() bool {
	switch t {
	case QuestionRadio, QuestionSelect, QuestionCheckbox, QuestionText,
		QuestionParagraph, QuestionScale, QuestionDate, QuestionTime:
		return true
	}
	return false
}

// Option is one choice of a radio/select/checkbox question
type Option struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label" bson:"label"`
}

// Question is a question within a section
type Question struct {
	ID       string       `json:"id" bson:"id"`
	Type     QuestionType `json:"type" bson:"type"`
	Prompt   string       `json:"prompt" bson:"prompt"`
	Required bool         `json:"required" bson:"required"`
	Options  []Option     `json:"options,omitempty" bson:"options,omitempty"`
}

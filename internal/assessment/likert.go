package assessment

// AnswerOption is a single point on the Likert scale.
type AnswerOption struct {
	Value       string // "1".."5", stored and submitted as a string
	Label       string
	Description string
}

// AnswerOptions is the Likert scale in display order (strongest first).
var AnswerOptions = []AnswerOption{
	{Value: "5", Label: "Always", Description: "I do this confidently, every time"},
	{Value: "4", Label: "Often", Description: "I usually do this without being reminded"},
	{Value: "3", Label: "Sometimes", Description: "I try to do this when I remember"},
	{Value: "2", Label: "Rarely", Description: "I'm still getting used to this"},
	{Value: "1", Label: "Not yet", Description: "I haven't tried this before"},
}

// ValidAnswerValue reports whether v is a legal Likert value.
func ValidAnswerValue(v string) bool {
	for _, opt := range AnswerOptions {
		if opt.Value == v {
			return true
		}
	}
	return false
}

// AnswerLabel returns the label for a Likert value, or the value itself
// when it is not on the scale.
func AnswerLabel(v string) string {
	for _, opt := range AnswerOptions {
		if opt.Value == v {
			return opt.Label
		}
	}
	return v
}

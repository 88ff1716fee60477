// Package profile turns questionnaire answers into Big Five trait scores.
package profile

import "sort"

type Trait string

const (
	Openness          Trait = "Openness"
	Conscientiousness Trait = "Conscientiousness"
	Extraversion      Trait = "Extraversion"
	Agreeableness     Trait = "Agreeableness"
	Neuroticism       Trait = "Neuroticism"
)

// Traits lists the five traits in a fixed order.
var Traits = []Trait{Openness, Conscientiousness, Extraversion, Agreeableness, Neuroticism}

// Likert scale bounds.
const (
	MinAnswer = 1
	MaxAnswer = 5
)

var questionTraits = map[string]Trait{
	"I enjoy being the center of attention.":           Extraversion,
	"I often feel anxious or worried.":                 Neuroticism,
	"I enjoy trying out new and different activities.": Openness,
	"I sympathize with others' feelings.":              Agreeableness,
	"I pay attention to details and stay organized.":   Conscientiousness,
	"I feel energized after socializing with others.":  Extraversion,
	"I get stressed out easily.":                       Neuroticism,
	"I am curious about many different things.":        Openness,
	"I try to get along with everyone.":                Agreeableness,
	"I complete tasks thoroughly and on time.":         Conscientiousness,
}

var optionLabels = map[int]string{
	1: "Strongly disagree",
	2: "Disagree",
	3: "Neutral",
	4: "Agree",
	5: "Strongly agree",
}

type Question struct {
	Text  string `json:"text"`
	Trait Trait  `json:"trait"`
}

type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Questions returns the questionnaire sorted by statement text.
func Questions() []Question {
	qs := make([]Question, 0, len(questionTraits))
	for text, trait := range questionTraits {
		qs = append(qs, Question{Text: text, Trait: trait})
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].Text < qs[j].Text })
	return qs
}

// Options returns the answer scale from MinAnswer to MaxAnswer.
func Options() []Option {
	opts := make([]Option, 0, len(optionLabels))
	for v := MinAnswer; v <= MaxAnswer; v++ {
		opts = append(opts, Option{Value: v, Label: optionLabels[v]})
	}
	return opts
}

// TraitFor reports which trait a question measures.
func TraitFor(question string) (Trait, bool) {
	t, ok := questionTraits[question]
	return t, ok
}

package profile

import (
	"fmt"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
)

// ErrAnswerOutOfRange is returned when an answer is outside the Likert scale.
var ErrAnswerOutOfRange = fmt.Errorf("answer must be between %d and %d", MinAnswer, MaxAnswer)

// Accumulator collects answers per trait. Lists only grow until Reset.
// It is not safe for concurrent use; each session owns one.
type Accumulator struct {
	answers map[Trait][]int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{answers: make(map[Trait][]int)}
}

// RecordAnswers appends each answer to the list of the trait its question
// measures. Unknown questions are skipped. If any answer is out of range
// nothing from this call is recorded.
func (a *Accumulator) RecordAnswers(answers map[string]int) error {
	for question, value := range answers {
		if _, ok := questionTraits[question]; !ok {
			continue
		}
		if value < MinAnswer || value > MaxAnswer {
			return fmt.Errorf("%w: %q got %d", ErrAnswerOutOfRange, question, value)
		}
	}
	for question, value := range answers {
		trait, ok := questionTraits[question]
		if !ok {
			continue
		}
		a.answers[trait] = append(a.answers[trait], value)
	}
	return nil
}

// Answers returns a copy of the answers recorded for trait.
func (a *Accumulator) Answers(trait Trait) []int {
	return append([]int(nil), a.answers[trait]...)
}

// Len reports the total number of recorded answers.
func (a *Accumulator) Len() int {
	n := 0
	for _, vs := range a.answers {
		n += len(vs)
	}
	return n
}

// Scores computes mean(answers)/MaxAnswer per trait. A trait without
// answers scores 0, which is indistinguishable from "no data"; callers
// that care should check Answers first.
func (a *Accumulator) Scores() db.TraitScores {
	return db.TraitScores{
		Openness:          a.normalised(Openness),
		Conscientiousness: a.normalised(Conscientiousness),
		Extraversion:      a.normalised(Extraversion),
		Agreeableness:     a.normalised(Agreeableness),
		Neuroticism:       a.normalised(Neuroticism),
	}
}

func (a *Accumulator) Reset() {
	a.answers = make(map[Trait][]int)
}

func (a *Accumulator) normalised(trait Trait) float64 {
	return mean(a.answers[trait]) / MaxAnswer
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

package assessment

import (
	"math/rand/v2"

	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
)

const (
	MaxQuestions        = 10
	ObjectiveQuestions  = 5
	SubjectiveQuestions = 5
)

// Shuffler is satisfied by *rand.Rand from math/rand and math/rand/v2.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// NewPlan returns the fixed objective/subjective split in uniformly random order.
func NewPlan(rng Shuffler) []types.QuestionType {
	plan := make([]types.QuestionType, 0, MaxQuestions)
	plan = appendN(plan, types.QuestionObjective, ObjectiveQuestions)
	plan = appendN(plan, types.QuestionSubjective, SubjectiveQuestions)
	shuffle(rng, plan)
	return plan
}

// ExtendPlan appends a shuffled remainder balanced against the first served entries of plan.
// The result always has at least MaxQuestions entries.
func ExtendPlan(plan []types.QuestionType, served int, rng Shuffler) []types.QuestionType {
	used := plan
	if served >= 0 && served < len(plan) {
		used = plan[:served]
	}
	objective, subjective := 0, 0
	for _, t := range used {
		switch t {
		case types.QuestionObjective:
			objective++
		case types.QuestionSubjective:
			subjective++
		}
	}

	rest := make([]types.QuestionType, 0, MaxQuestions)
	rest = appendN(rest, types.QuestionObjective, ObjectiveQuestions-objective)
	rest = appendN(rest, types.QuestionSubjective, SubjectiveQuestions-subjective)
	shuffle(rng, rest)

	out := make([]types.QuestionType, 0, len(plan)+len(rest))
	out = append(out, plan...)
	return append(out, rest...)
}

func appendN(plan []types.QuestionType, t types.QuestionType, n int) []types.QuestionType {
	for i := 0; i < n; i++ {
		plan = append(plan, t)
	}
	return plan
}

func shuffle(rng Shuffler, plan []types.QuestionType) {
	if rng == nil {
		rng = globalShuffler{}
	}
	rng.Shuffle(len(plan), func(i, j int) { plan[i], plan[j] = plan[j], plan[i] })
}

package assessment

import (
	"math"

	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
)

const (
	KFactor       = 20
	DefaultRating = types.DefaultSkillElo
	MasteryStep   = 10
)

// DifficultyRating anchors a question difficulty on the rating scale.
func DifficultyRating(d types.Difficulty) int {
	switch d {
	case types.DifficultyEasy:
		return 1000
	case types.DifficultyHard:
		return 1400
	default:
		return 1200
	}
}

// BucketScore snaps a raw 0..100 grade onto 0/25/50/75/100.
func BucketScore(raw float64) int {
	raw = clampFloat(raw, 0, 100)
	switch {
	case raw >= 87:
		return 100
	case raw >= 62:
		return 75
	case raw >= 37:
		return 50
	case raw >= 13:
		return 25
	default:
		return 0
	}
}

// ExpectedProbability is the Elo win expectation of rating against difficulty.
func ExpectedProbability(rating, difficulty float64) float64 {
	return 1 / (1 + math.Pow(10, (difficulty-rating)/400))
}

// UpdateRating applies one K-factor step for score (0..100) against a question of difficulty d.
// The result never drops below zero.
func UpdateRating(rating int, d types.Difficulty, score int) (after int, delta int) {
	p := ExpectedProbability(float64(rating), float64(DifficultyRating(d)))
	delta = roundHalfUp(KFactor * (float64(score)/100 - p))
	after = rating + delta
	if after < 0 {
		after = 0
	}
	return after, delta
}

// NudgeMastery moves mastery up by a score-proportional step, clamped to 0..100.
func NudgeMastery(mastery, score int) int {
	next := mastery + roundHalfUp(MasteryStep*float64(score)/100)
	if next < 0 {
		return 0
	}
	if next > types.MaxSkillMastery {
		return types.MaxSkillMastery
	}
	return next
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

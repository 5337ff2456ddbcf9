package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionObjective  QuestionType = "objective"
	QuestionSubjective QuestionType = "subjective"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// AssessmentSession is one user's run through a fixed-length graded question sequence.
// A user has at most one row; starting a new run replaces it. A completed row is kept
// as the log of the last run.
type AssessmentSession struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex" json:"user_id"`
	Skill  string    `gorm:"column:skill;not null" json:"skill"`

	StartElo int `gorm:"column:start_elo;not null" json:"start_elo"`

	// QuestionCount is the 1-based number of questions served so far.
	QuestionCount int `gorm:"column:question_count;not null;default:0" json:"question_count"`
	CorrectCount  int `gorm:"column:correct_count;not null;default:0" json:"correct_count"`
	Streak        int `gorm:"column:streak;not null;default:0" json:"streak"`
	AttemptCount  int `gorm:"column:attempt_count;not null;default:0" json:"attempt_count"`

	CurrentQuestionText string                      `gorm:"column:current_question_text;type:text;not null" json:"current_question_text"`
	CurrentOptions      datatypes.JSONSlice[string] `gorm:"column:current_options" json:"current_options"`
	CurrentAnswer       string                      `gorm:"column:current_answer;type:text;not null" json:"-"`
	QuestionType        QuestionType                `gorm:"column:question_type;not null" json:"question_type"`
	Difficulty          Difficulty                  `gorm:"column:difficulty;not null;default:'Medium'" json:"difficulty"`

	AskedQuestions datatypes.JSONSlice[string]       `gorm:"column:asked_questions" json:"asked_questions"`
	QuestionPlan   datatypes.JSONSlice[QuestionType] `gorm:"column:question_plan" json:"question_plan"`

	Answer          string `gorm:"column:answer;type:text;not null;default:''" json:"answer"`
	ScorePercentage int    `gorm:"column:score_percentage;not null;default:0" json:"score_percentage"`
	Feedback        string `gorm:"column:feedback;type:text;not null;default:''" json:"feedback"`
	EloBefore       *int   `gorm:"column:elo_before" json:"elo_before,omitempty"`
	EloAfter        *int   `gorm:"column:elo_after" json:"elo_after,omitempty"`

	// Version increments on every write; writers compare-and-swap on it.
	Version        int64      `gorm:"column:version;not null;default:1" json:"version"`
	LastActivityAt time.Time  `gorm:"column:last_activity_at;not null;index" json:"last_activity_at"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (AssessmentSession) TableName() string { return "assessment_session" }

func (s *AssessmentSession) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Completed reports whether the run reached its cap and was closed.
func (s *AssessmentSession) Completed() bool {
	return s != nil && s.CompletedAt != nil
}

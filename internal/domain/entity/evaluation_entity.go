package entity

import (
	"math"
	"time"
)

const (
	MinScore = 1
	MaxScore = 5
)

// Evaluation is the client's post-completion scoring of a project.
type Evaluation struct {
	ID              string
	ProjectID       string
	EvaluatorID     string
	InnovationScore int
	AccuracyScore   int
	UsabilityScore  int
	Comments        string
	CreatedAt       time.Time
}

// ScoresValid is true when every sub-score lies in [MinScore, MaxScore].
func (e *Evaluation) ScoresValid() bool {
	for _, s := range []int{e.InnovationScore, e.AccuracyScore, e.UsabilityScore} {
		if s < MinScore || s > MaxScore {
			return false
		}
	}
	return true
}

// Overall is the mean of the sub-scores rounded to one decimal.
func (e *Evaluation) Overall() float64 {
	sum := float64(e.InnovationScore + e.AccuracyScore + e.UsabilityScore)
	return math.Round(sum/3*10) / 10
}

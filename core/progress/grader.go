package progress

import (
	"errors"
	"math"

	"github.com/darasa-lms/darasa/core/course"
)

// ErrInvalidQuizState flags a quiz that cannot be graded: it has no questions,
// or its answer key is corrupt. Both are authoring-side integrity violations.
var ErrInvalidQuizState = errors.New("quiz is not in a gradable state")

// Grade scores a submitted answer set against the quiz's answer key.
// A question counts as correct iff the submission holds an entry for its ID
// equal to the question's CorrectIdx; missing or out-of-range answers simply
// score zero for that question, they never fail the submission.
//
// Score = 100 * correct / total, rounded half-up (math.Round; inputs are
// never negative). Passed = Score >= PassPct.
func Grade(quiz course.Quiz, answers map[string]int) (GradeResult, error) {
	total := len(quiz.Questions)
	if total == 0 {
		return GradeResult{}, ErrInvalidQuizState
	}

	var correct int
	for _, q := range quiz.Questions {
		if q.CorrectIdx < 0 || q.CorrectIdx >= len(q.Options) {
			return GradeResult{}, ErrInvalidQuizState
		}
		if idx, ok := answers[q.ID]; ok && idx == q.CorrectIdx {
			correct++
		}
	}

	score := int(math.Round(float64(correct) / float64(total) * 100))
	return GradeResult{
		Score:   score,
		Passed:  score >= quiz.PassPct,
		Correct: correct,
		Total:   total,
		PassPct: quiz.PassPct,
	}, nil
}

package progress

import (
	"time"

	"github.com/darasa-lms/darasa/core/course"
)

// Progress is the per-student, per-lecture completion record.
// Absence of a record means "not started". Score is only ever set for quiz
// lectures; a completed quiz implies the last score met the passing threshold.
type Progress struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	LectureID string    `json:"lecture_id"`
	Completed bool      `json:"completed"`
	Score     *int      `json:"score,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// GradeResult is the outcome of grading one quiz submission.
type GradeResult struct {
	Score   int  `json:"score"`
	Passed  bool `json:"passed"`
	Correct int  `json:"correct_answers"`
	Total   int  `json:"total_questions"`
	PassPct int  `json:"passing_score"`
}

// SubmissionResult is what a student gets back from a quiz submission.
type SubmissionResult struct {
	GradeResult
	Progress Progress `json:"progress"`
}

// CourseSummary is a student's completion roll-up over one course.
type CourseSummary struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type (
	// LectureView is a lecture as seen by the requesting identity: students
	// get a redacted quiz (no answer key) plus their own progress, instructors
	// get the full payload.
	LectureView struct {
		course.Lecture
		Quiz     *QuizView `json:"quiz,omitempty"`
		Progress *Progress `json:"progress,omitempty"`
	}

	QuizView struct {
		ID        string         `json:"id"`
		PassPct   int            `json:"pass_pct"`
		Questions []QuestionView `json:"questions"`
	}

	QuestionView struct {
		ID         string   `json:"id"`
		Text       string   `json:"text"`
		Options    []string `json:"options"`
		CorrectIdx *int     `json:"correct_idx,omitempty"`
	}
)

func newQuizView(quiz course.Quiz, withKey bool) *QuizView {
	qv := &QuizView{
		ID:        quiz.ID,
		PassPct:   quiz.PassPct,
		Questions: make([]QuestionView, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		view := QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Options: q.Options,
		}
		if withKey {
			idx := q.CorrectIdx
			view.CorrectIdx = &idx
		}
		qv.Questions = append(qv.Questions, view)
	}
	return qv
}

package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasa-lms/darasa/core"
)

// Lecture kinds
const (
	KindReading = "reading"
	KindQuiz    = "quiz"
)

type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	InstructorID string    `json:"instructor_id"`
	CreatedAt    time.Time `json:"created_at"` // UTC

	Lectures []Lecture `json:"lectures,omitempty"`
}

// Lecture is an ordered unit of course content: reading material or a quiz.
// Order is unique within a course and strictly drives sequential unlocking;
// it need not be contiguous after renumbering.
type Lecture struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Link      string    `json:"link,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

func (l Lecture) IsReading() bool { return l.Kind == KindReading }
func (l Lecture) IsQuiz() bool    { return l.Kind == KindQuiz }

// Quiz belongs to exactly one Lecture of kind quiz.
type Quiz struct {
	ID        string     `json:"id"`
	LectureID string     `json:"lecture_id"`
	PassPct   int        `json:"pass_pct"`
	Questions []Question `json:"questions,omitempty"`
}

type Question struct {
	ID         string   `json:"id"`
	QuizID     string   `json:"quiz_id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	CorrectIdx int      `json:"correct_idx"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required,min=10"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// NewLecture contains information needed to append a Lecture to a Course.
// The order is assigned by the service, not the caller.
type NewLecture struct {
	Kind    string `json:"kind" validate:"required,oneof=reading quiz"`
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
	Link    string `json:"link" validate:"omitempty,url"`
}

func (nl *NewLecture) Validate(validate *validator.Validate) error {
	nl.Kind = core.CleanString(nl.Kind, true /* lower */)
	nl.Title = core.CleanString(nl.Title)
	nl.Content = core.CleanString(nl.Content)
	nl.Link = core.CleanString(nl.Link)
	return validate.Struct(nl)
}

// QuizUpdate replaces a quiz's question bank and passing threshold.
type QuizUpdate struct {
	PassPct   int           `json:"pass_pct" validate:"min=0,max=100"`
	Questions []NewQuestion `json:"questions" validate:"required,min=1,dive"`
}

type NewQuestion struct {
	Text       string   `json:"text" validate:"required"`
	Options    []string `json:"options" validate:"required,min=2"`
	CorrectIdx int      `json:"correct_idx" validate:"min=0"`
}

func (qu *QuizUpdate) Validate(validate *validator.Validate) error {
	for i := range qu.Questions {
		qu.Questions[i].Text = core.CleanString(qu.Questions[i].Text)
	}
	if err := validate.Struct(qu); err != nil {
		return err
	}
	// CorrectIdx must index into its own options; validator tags cannot cross-check this.
	for _, q := range qu.Questions {
		if q.CorrectIdx >= len(q.Options) {
			return core.NewValidationError(nil, core.FieldError{
				Field: "correct_idx",
				Error: "correct answer index is out of range",
			})
		}
	}
	return nil
}

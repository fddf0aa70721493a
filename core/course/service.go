package course

import (
	"context"
	"errors"
	"time"
)

// DefaultPassPct is the passing threshold assigned to a freshly created quiz.
const DefaultPassPct = 70

var (
	// errors
	ErrNotFound        = errors.New("course not found")
	ErrLectureNotFound = errors.New("lecture not found")
	ErrQuizNotFound    = errors.New("quiz not found")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)

		// QueryLectures returns all lectures of a course ordered by `order` ASC.
		QueryLectures(ctx context.Context, courseID string) ([]Lecture, error)
		// QueryPriorLectures returns the lectures of a course with an order
		// strictly lower than the given one, ordered by `order` ASC.
		QueryPriorLectures(ctx context.Context, courseID string, order int) ([]Lecture, error)
		GetLectureByID(ctx context.Context, id string) (Lecture, error)
		NextLectureOrder(ctx context.Context, courseID string) (int, error)
		// CreateLecture inserts a lecture and, when quiz is non-nil, its quiz
		// within the same transaction.
		CreateLecture(ctx context.Context, lec Lecture, quiz *Quiz) (Lecture, error)

		// GetQuizByLectureID returns the lecture's quiz with its questions.
		GetQuizByLectureID(ctx context.Context, lectureID string) (Quiz, error)
		// ReplaceQuizQuestions swaps the whole question bank and the passing
		// threshold within one transaction.
		ReplaceQuizQuestions(ctx context.Context, quizID string, passPct int, questions []Question) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, instructorID string, nc NewCourse) (Course, error) {
	crs := Course{
		Title:        nc.Title,
		Description:  nc.Description,
		InstructorID: instructorID,
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

// GetByID returns the course with its lectures ordered by `order`.
func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	lectures, err := svc.repo.QueryLectures(ctx, id)
	if err != nil {
		return Course{}, err
	}
	crs.Lectures = lectures
	return crs, nil
}

func (svc *Service) GetLecture(ctx context.Context, id string) (Lecture, error) {
	return svc.repo.GetLectureByID(ctx, id)
}

// AddLecture appends a lecture at the end of the course sequence.
// A quiz lecture gets an empty quiz with the default passing threshold.
func (svc *Service) AddLecture(ctx context.Context, instructorID, courseID string, nl NewLecture) (Lecture, error) {
	if _, err := svc.ownedCourse(ctx, instructorID, courseID); err != nil {
		return Lecture{}, err
	}

	order, err := svc.repo.NextLectureOrder(ctx, courseID)
	if err != nil {
		return Lecture{}, err
	}

	lec := Lecture{
		CourseID:  courseID,
		Kind:      nl.Kind,
		Title:     nl.Title,
		Content:   nl.Content,
		Link:      nl.Link,
		Order:     order,
		CreatedAt: time.Now().UTC(),
	}
	var quiz *Quiz
	if lec.IsQuiz() {
		quiz = &Quiz{PassPct: DefaultPassPct}
	}
	return svc.repo.CreateLecture(ctx, lec, quiz)
}

// GetQuiz returns the full quiz (answer key included) of a quiz lecture
// belonging to a course owned by the instructor.
func (svc *Service) GetQuiz(ctx context.Context, instructorID, courseID, lectureID string) (Quiz, error) {
	if _, err := svc.quizLecture(ctx, instructorID, courseID, lectureID); err != nil {
		return Quiz{}, err
	}
	return svc.repo.GetQuizByLectureID(ctx, lectureID)
}

// UpdateQuiz replaces the question bank and passing threshold of a quiz lecture.
func (svc *Service) UpdateQuiz(ctx context.Context, instructorID, courseID, lectureID string, qu QuizUpdate) error {
	if _, err := svc.quizLecture(ctx, instructorID, courseID, lectureID); err != nil {
		return err
	}
	quiz, err := svc.repo.GetQuizByLectureID(ctx, lectureID)
	if err != nil {
		return err
	}

	questions := make([]Question, 0, len(qu.Questions))
	for _, q := range qu.Questions {
		questions = append(questions, Question{
			QuizID:     quiz.ID,
			Text:       q.Text,
			Options:    q.Options,
			CorrectIdx: q.CorrectIdx,
		})
	}
	return svc.repo.ReplaceQuizQuestions(ctx, quiz.ID, qu.PassPct, questions)
}

// ownedCourse reports ErrNotFound for both a missing course and a foreign one;
// instructors learn nothing about courses they do not own.
func (svc *Service) ownedCourse(ctx context.Context, instructorID, courseID string) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return Course{}, err
	}
	if crs.InstructorID != instructorID {
		return Course{}, ErrNotFound
	}
	return crs, nil
}

func (svc *Service) quizLecture(ctx context.Context, instructorID, courseID, lectureID string) (Lecture, error) {
	if _, err := svc.ownedCourse(ctx, instructorID, courseID); err != nil {
		return Lecture{}, err
	}
	lec, err := svc.repo.GetLectureByID(ctx, lectureID)
	if err != nil {
		return Lecture{}, err
	}
	if lec.CourseID != courseID || !lec.IsQuiz() {
		return Lecture{}, ErrLectureNotFound
	}
	return lec, nil
}

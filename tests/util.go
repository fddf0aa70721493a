package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/course"
	"github.com/darasa-lms/darasa/core/progress"
)

func NewStudent() core.Identity {
	id := uuid.New().String()
	return core.Identity{ID: id, Email: id[:8] + "@student.test", Role: core.RoleStudent}
}

func NewInstructor() core.Identity {
	id := uuid.New().String()
	return core.Identity{ID: id, Email: id[:8] + "@instructor.test", Role: core.RoleInstructor}
}

func CreateCourse(
	t *testing.T,
	repo course.Repository,
	instructorID, title string,
	createdAt ...time.Time,
) course.Course {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	crs, err := repo.CreateCourse(context.Background(), course.Course{
		Title:        title,
		Description:  "A course about " + title,
		InstructorID: instructorID,
		CreatedAt:    tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateReadingLecture(
	t *testing.T,
	repo course.Repository,
	courseID, title string,
	order int,
) course.Lecture {
	lec, err := repo.CreateLecture(context.Background(), course.Lecture{
		CourseID:  courseID,
		Kind:      course.KindReading,
		Title:     title,
		Content:   "Read this carefully.",
		Order:     order,
		CreatedAt: time.Now().UTC(),
	}, nil)
	if err != nil {
		t.Fatalf("CreateReadingLecture() failed: %v", err)
	}
	return lec
}

// CreateQuizLecture creates a quiz lecture together with its quiz and
// question bank.
func CreateQuizLecture(
	t *testing.T,
	repo course.Repository,
	courseID, title string,
	order, passPct int,
	questions []course.Question,
) (course.Lecture, course.Quiz) {
	ctx := context.Background()
	lec, err := repo.CreateLecture(ctx, course.Lecture{
		CourseID:  courseID,
		Kind:      course.KindQuiz,
		Title:     title,
		Order:     order,
		CreatedAt: time.Now().UTC(),
	}, &course.Quiz{PassPct: passPct})
	if err != nil {
		t.Fatalf("CreateQuizLecture() failed: %v", err)
	}
	quiz, err := repo.GetQuizByLectureID(ctx, lec.ID)
	if err != nil {
		t.Fatalf("CreateQuizLecture() failed: %v", err)
	}
	if len(questions) > 0 {
		if err = repo.ReplaceQuizQuestions(ctx, quiz.ID, passPct, questions); err != nil {
			t.Fatalf("CreateQuizLecture() failed: %v", err)
		}
		if quiz, err = repo.GetQuizByLectureID(ctx, lec.ID); err != nil {
			t.Fatalf("CreateQuizLecture() failed: %v", err)
		}
	}
	return lec, quiz
}

// Questions builds a bank where every question has two options and the
// correct answer at index 0.
func Questions(n int) []course.Question {
	questions := make([]course.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, course.Question{
			Text:       "Question " + uuid.New().String()[:8],
			Options:    []string{"right", "wrong"},
			CorrectIdx: 0,
		})
	}
	return questions
}

func CreateProgress(
	t *testing.T,
	repo progress.Repository,
	studentID, lectureID string,
	completed bool,
	score ...int,
) progress.Progress {
	rec := progress.Progress{
		StudentID: studentID,
		LectureID: lectureID,
		Completed: completed,
	}
	if len(score) > 0 {
		s := score[0]
		rec.Score = &s
	}
	rec, err := repo.UpsertProgress(context.Background(), rec)
	if err != nil {
		t.Fatalf("CreateProgress() failed: %v", err)
	}
	return rec
}

package progress_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/course"
	"github.com/darasa-lms/darasa/core/progress"
	dummydb "github.com/darasa-lms/darasa/storage/database/dummy"
	testutil "github.com/darasa-lms/darasa/tests"
)

type serviceFixture struct {
	svc        *progress.Service
	courseRepo course.Repository
	progRepo   progress.Repository

	instructor core.Identity
	student    core.Identity

	crs     course.Course
	reading course.Lecture
	quizLec course.Lecture
	quiz    course.Quiz
}

// newServiceFixture seeds a course with a reading lecture followed by a quiz
// lecture whose two questions both expect option 0.
func newServiceFixture(t *testing.T) serviceFixture {
	db, _ := dummydb.Open()
	courseRepo := dummydb.NewCourseRepository(db)
	progRepo := dummydb.NewProgressRepository(db)

	f := serviceFixture{
		svc:        progress.NewService(courseRepo, progRepo),
		courseRepo: courseRepo,
		progRepo:   progRepo,
		instructor: testutil.NewInstructor(),
		student:    testutil.NewStudent(),
	}
	f.crs = testutil.CreateCourse(t, courseRepo, f.instructor.ID, "Engine Basics")
	f.reading = testutil.CreateReadingLecture(t, courseRepo, f.crs.ID, "Read me", 1)
	f.quizLec, f.quiz = testutil.CreateQuizLecture(t, courseRepo, f.crs.ID, "Checkpoint", 2, 70, testutil.Questions(2))
	return f
}

func (f serviceFixture) passingAnswers() map[string]int {
	answers := make(map[string]int, len(f.quiz.Questions))
	for _, q := range f.quiz.Questions {
		answers[q.ID] = q.CorrectIdx
	}
	return answers
}

func TestService_CompleteReading(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	t.Run("instructors cannot record progress", func(t *testing.T) {
		if _, err := f.svc.CompleteReading(ctx, f.instructor, f.reading.ID); errors.Cause(err) != progress.ErrNotStudent {
			t.Errorf("CompleteReading() error = %v; want ErrNotStudent", err)
		}
	})

	t.Run("quiz lectures cannot be marked complete", func(t *testing.T) {
		if _, err := f.svc.CompleteReading(ctx, f.student, f.quizLec.ID); errors.Cause(err) != progress.ErrNotReadingLecture {
			t.Errorf("CompleteReading() error = %v; want ErrNotReadingLecture", err)
		}
	})

	t.Run("unknown lecture", func(t *testing.T) {
		if _, err := f.svc.CompleteReading(ctx, f.student, "nope"); errors.Cause(err) != course.ErrLectureNotFound {
			t.Errorf("CompleteReading() error = %v; want ErrLectureNotFound", err)
		}
	})

	t.Run("completes and stays idempotent", func(t *testing.T) {
		rec, err := f.svc.CompleteReading(ctx, f.student, f.reading.ID)
		if err != nil {
			t.Fatalf("CompleteReading() failed: %v", err)
		}
		assert.True(t, rec.Completed)
		assert.Nil(t, rec.Score)

		again, err := f.svc.CompleteReading(ctx, f.student, f.reading.ID)
		if err != nil {
			t.Fatalf("CompleteReading() failed: %v", err)
		}
		assert.Equal(t, rec.ID, again.ID) // same record, updated in place
		assert.True(t, again.Completed)
	})
}

func TestService_SubmitQuiz(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	t.Run("instructors cannot submit", func(t *testing.T) {
		if _, err := f.svc.SubmitQuiz(ctx, f.instructor, f.quizLec.ID, nil); errors.Cause(err) != progress.ErrNotStudent {
			t.Errorf("SubmitQuiz() error = %v; want ErrNotStudent", err)
		}
	})

	t.Run("reading lectures take no submissions", func(t *testing.T) {
		if _, err := f.svc.SubmitQuiz(ctx, f.student, f.reading.ID, nil); errors.Cause(err) != progress.ErrNotQuizLecture {
			t.Errorf("SubmitQuiz() error = %v; want ErrNotQuizLecture", err)
		}
	})

	t.Run("locked until the reading is done", func(t *testing.T) {
		if _, err := f.svc.SubmitQuiz(ctx, f.student, f.quizLec.ID, f.passingAnswers()); errors.Cause(err) != progress.ErrLectureLocked {
			t.Errorf("SubmitQuiz() error = %v; want ErrLectureLocked", err)
		}
	})

	if _, err := f.svc.CompleteReading(ctx, f.student, f.reading.ID); err != nil {
		t.Fatalf("CompleteReading() failed: %v", err)
	}

	t.Run("failed attempt is recorded and retryable", func(t *testing.T) {
		res, err := f.svc.SubmitQuiz(ctx, f.student, f.quizLec.ID, nil)
		if err != nil {
			t.Fatalf("SubmitQuiz() failed: %v", err)
		}
		assert.Equal(t, 0, res.Score)
		assert.False(t, res.Passed)
		assert.False(t, res.Progress.Completed)
		if assert.NotNil(t, res.Progress.Score) {
			assert.Equal(t, 0, *res.Progress.Score)
		}
	})

	t.Run("passing attempt replaces the failed one", func(t *testing.T) {
		res, err := f.svc.SubmitQuiz(ctx, f.student, f.quizLec.ID, f.passingAnswers())
		if err != nil {
			t.Fatalf("SubmitQuiz() failed: %v", err)
		}
		assert.Equal(t, 100, res.Score)
		assert.True(t, res.Passed)
		assert.True(t, res.Progress.Completed)

		rec, err := f.progRepo.GetProgress(ctx, f.student.ID, f.quizLec.ID)
		if err != nil {
			t.Fatalf("GetProgress() failed: %v", err)
		}
		assert.Equal(t, res.Progress.ID, rec.ID)
		assert.True(t, rec.Completed)
	})

	t.Run("re-submission after passing updates in place", func(t *testing.T) {
		answers := f.passingAnswers()
		for id := range answers {
			answers[id]++ // one wrong out of two
			break
		}
		res, err := f.svc.SubmitQuiz(ctx, f.student, f.quizLec.ID, answers)
		if err != nil {
			t.Fatalf("SubmitQuiz() failed: %v", err)
		}
		assert.Equal(t, 50, res.Score)
		assert.False(t, res.Passed)
		assert.False(t, res.Progress.Completed) // latest attempt wins
	})
}

func TestService_SubmitQuiz_noQuiz(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	bare, err := f.courseRepo.CreateLecture(ctx, course.Lecture{
		CourseID: f.crs.ID,
		Kind:     course.KindQuiz,
		Title:    "Orphan",
		Order:    3,
	}, nil)
	if err != nil {
		t.Fatalf("CreateLecture() failed: %v", err)
	}

	if _, err = f.svc.SubmitQuiz(ctx, f.student, bare.ID, nil); errors.Cause(err) != progress.ErrNotQuizLecture {
		t.Errorf("SubmitQuiz() error = %v; want ErrNotQuizLecture", err)
	}
}

func TestService_SubmitQuiz_emptyQuiz(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	empty, _ := testutil.CreateQuizLecture(t, f.courseRepo, f.crs.ID, "No questions yet", 0, 70, nil)

	if _, err := f.svc.SubmitQuiz(ctx, f.student, empty.ID, nil); errors.Cause(err) != progress.ErrInvalidQuizState {
		t.Errorf("SubmitQuiz() error = %v; want ErrInvalidQuizState", err)
	}
}

func TestService_SubmitQuiz_concurrent(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	if _, err := f.svc.CompleteReading(ctx, f.student, f.reading.ID); err != nil {
		t.Fatalf("CompleteReading() failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]progress.SubmissionResult, 2)
	submissions := []map[string]int{f.passingAnswers(), nil}
	for i := range submissions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.svc.SubmitQuiz(ctx, f.student, f.quizLec.ID, submissions[i])
			if err != nil {
				t.Errorf("SubmitQuiz() failed: %v", err)
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	// exactly one record remains, matching whichever submission landed last
	rec, err := f.progRepo.GetProgress(ctx, f.student.ID, f.quizLec.ID)
	if err != nil {
		t.Fatalf("GetProgress() failed: %v", err)
	}
	if assert.NotNil(t, rec.Score) {
		matched := false
		for _, res := range results {
			if res.Score == *rec.Score && res.Passed == rec.Completed {
				matched = true
			}
		}
		assert.True(t, matched, "final record %+v matches neither submission", rec)
	}
}

func TestService_GetLectureView(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	t.Run("instructor sees the answer key", func(t *testing.T) {
		view, err := f.svc.GetLectureView(ctx, f.instructor, f.quizLec.ID)
		if err != nil {
			t.Fatalf("GetLectureView() failed: %v", err)
		}
		if assert.NotNil(t, view.Quiz) {
			for _, q := range view.Quiz.Questions {
				assert.NotNil(t, q.CorrectIdx)
			}
		}
	})

	t.Run("locked for a fresh student", func(t *testing.T) {
		if _, err := f.svc.GetLectureView(ctx, f.student, f.quizLec.ID); errors.Cause(err) != progress.ErrLectureLocked {
			t.Errorf("GetLectureView() error = %v; want ErrLectureLocked", err)
		}
	})

	t.Run("student gets a redacted quiz with own progress", func(t *testing.T) {
		if _, err := f.svc.CompleteReading(ctx, f.student, f.reading.ID); err != nil {
			t.Fatalf("CompleteReading() failed: %v", err)
		}
		if _, err := f.svc.SubmitQuiz(ctx, f.student, f.quizLec.ID, f.passingAnswers()); err != nil {
			t.Fatalf("SubmitQuiz() failed: %v", err)
		}

		view, err := f.svc.GetLectureView(ctx, f.student, f.quizLec.ID)
		if err != nil {
			t.Fatalf("GetLectureView() failed: %v", err)
		}
		if assert.NotNil(t, view.Quiz) {
			for _, q := range view.Quiz.Questions {
				assert.Nil(t, q.CorrectIdx)
			}
		}
		if assert.NotNil(t, view.Progress) {
			assert.True(t, view.Progress.Completed)
		}
	})
}

func TestService_CourseSummary(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	summary, err := f.svc.CourseSummary(ctx, f.student.ID, f.crs.ID)
	if err != nil {
		t.Fatalf("CourseSummary() failed: %v", err)
	}
	assert.Equal(t, progress.CourseSummary{Completed: 0, Total: 2, Percentage: 0}, summary)

	if _, err = f.svc.CompleteReading(ctx, f.student, f.reading.ID); err != nil {
		t.Fatalf("CompleteReading() failed: %v", err)
	}
	if summary, err = f.svc.CourseSummary(ctx, f.student.ID, f.crs.ID); err != nil {
		t.Fatalf("CourseSummary() failed: %v", err)
	}
	assert.Equal(t, progress.CourseSummary{Completed: 1, Total: 2, Percentage: 50}, summary)

	if _, err = f.svc.SubmitQuiz(ctx, f.student, f.quizLec.ID, f.passingAnswers()); err != nil {
		t.Fatalf("SubmitQuiz() failed: %v", err)
	}
	if summary, err = f.svc.CourseSummary(ctx, f.student.ID, f.crs.ID); err != nil {
		t.Fatalf("CourseSummary() failed: %v", err)
	}
	assert.Equal(t, progress.CourseSummary{Completed: 2, Total: 2, Percentage: 100}, summary)

	t.Run("empty course rolls up to zero", func(t *testing.T) {
		empty := testutil.CreateCourse(t, f.courseRepo, f.instructor.ID, "Empty Shell")
		summary, err := f.svc.CourseSummary(ctx, f.student.ID, empty.ID)
		if err != nil {
			t.Fatalf("CourseSummary() failed: %v", err)
		}
		assert.Equal(t, progress.CourseSummary{}, summary)
	})
}

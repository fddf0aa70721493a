package progress_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/course"
	"github.com/darasa-lms/darasa/core/progress"
	dummydb "github.com/darasa-lms/darasa/storage/database/dummy"
	testutil "github.com/darasa-lms/darasa/tests"
)

func TestResolver_Unlocked(t *testing.T) {
	ctx := context.Background()
	db, _ := dummydb.Open()
	courseRepo := dummydb.NewCourseRepository(db)
	progRepo := dummydb.NewProgressRepository(db)
	resolver := progress.NewResolver(courseRepo)

	instructor := testutil.NewInstructor()
	student := testutil.NewStudent()

	crs := testutil.CreateCourse(t, courseRepo, instructor.ID, "Sequencing 101")
	first := testutil.CreateReadingLecture(t, courseRepo, crs.ID, "Intro", 1)
	second := testutil.CreateReadingLecture(t, courseRepo, crs.ID, "Middle", 2)
	third, _ := testutil.CreateQuizLecture(t, courseRepo, crs.ID, "Final", 3, 70, testutil.Questions(2))

	// a course whose orders start above 1; its lowest lecture must still be open
	sparse := testutil.CreateCourse(t, courseRepo, instructor.ID, "Sparse Orders")
	sparseFirst := testutil.CreateReadingLecture(t, courseRepo, sparse.ID, "Starts at five", 5)
	sparseSecond := testutil.CreateReadingLecture(t, courseRepo, sparse.ID, "Then ten", 10)

	check := func(t *testing.T, lec course.Lecture, want bool) {
		t.Helper()
		got, err := resolver.Unlocked(ctx, progRepo, student.ID, lec)
		if err != nil {
			t.Fatalf("Unlocked() failed: %v", err)
		}
		if got != want {
			t.Errorf("Unlocked(%q) = %v; want %v", lec.Title, got, want)
		}
	}

	t.Run("first lecture is always unlocked", func(t *testing.T) {
		check(t, first, true)
		check(t, sparseFirst, true)
	})

	t.Run("later lectures start locked", func(t *testing.T) {
		check(t, second, false)
		check(t, third, false)
		check(t, sparseSecond, false)
	})

	t.Run("an incomplete record does not unlock", func(t *testing.T) {
		testutil.CreateProgress(t, progRepo, student.ID, first.ID, false)
		check(t, second, false)
	})

	t.Run("all earlier lectures must be completed", func(t *testing.T) {
		testutil.CreateProgress(t, progRepo, student.ID, first.ID, true)
		check(t, second, true)
		check(t, third, false) // second still pending

		testutil.CreateProgress(t, progRepo, student.ID, second.ID, true)
		check(t, third, true)
	})

	t.Run("other students' progress does not leak", func(t *testing.T) {
		other := testutil.NewStudent()
		got, err := resolver.Unlocked(ctx, progRepo, other.ID, second)
		if err != nil {
			t.Fatalf("Unlocked() failed: %v", err)
		}
		if got {
			t.Error("Unlocked() = true for a fresh student; want false")
		}
	})
}

func TestResolver_Unlocked_conflictingOrder(t *testing.T) {
	ctx := context.Background()
	db, _ := dummydb.Open()
	courseRepo := dummydb.NewCourseRepository(db)
	progRepo := dummydb.NewProgressRepository(db)
	resolver := progress.NewResolver(courseRepo)

	instructor := testutil.NewInstructor()
	student := testutil.NewStudent()

	crs := testutil.CreateCourse(t, courseRepo, instructor.ID, "Broken Ordering")
	testutil.CreateReadingLecture(t, courseRepo, crs.ID, "A", 1)
	dupe := testutil.CreateReadingLecture(t, courseRepo, crs.ID, "B", 1)
	last := testutil.CreateReadingLecture(t, courseRepo, crs.ID, "C", 2)

	if _, err := resolver.Unlocked(ctx, progRepo, student.ID, last); errors.Cause(err) != progress.ErrInvalidSequence {
		t.Errorf("Unlocked() error = %v; want ErrInvalidSequence", err)
	}

	// the tie only matters for lectures ordered after it
	got, err := resolver.Unlocked(ctx, progRepo, student.ID, dupe)
	if err != nil {
		t.Fatalf("Unlocked() failed: %v", err)
	}
	if !got {
		t.Error("Unlocked() = false for a lecture with no prior lectures; want true")
	}
}

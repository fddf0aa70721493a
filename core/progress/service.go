package progress

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/course"
)

var (
	// errors
	ErrNotFound          = errors.New("progress not found")
	ErrNotStudent        = errors.New("student account required")
	ErrLectureLocked     = errors.New("complete previous lectures first")
	ErrNotReadingLecture = errors.New("only reading lectures can be marked complete")
	ErrNotQuizLecture    = errors.New("lecture does not hold a quiz")
)

type (
	Repository interface {
		// GetProgress returns ErrNotFound when the student never interacted
		// with the lecture.
		GetProgress(ctx context.Context, studentID, lectureID string) (Progress, error)
		QueryProgressByLectureIDs(ctx context.Context, studentID string, lectureIDs []string) ([]Progress, error)
		QueryCourseProgress(ctx context.Context, studentID, courseID string) ([]Progress, error)
		// UpsertProgress creates or updates the single record for the
		// (student, lecture) pair. It must be atomic under concurrent calls
		// for the same pair: last write wins, no partial state, and a create
		// race never surfaces a duplicate-key error.
		UpsertProgress(ctx context.Context, rec Progress) (Progress, error)
		// Atomic runs fn against a Repository whose reads and writes share a
		// single store transaction.
		Atomic(ctx context.Context, fn func(Repository) error) error
	}

	// Service coordinates access checks, grading and atomic progress writes.
	Service struct {
		courses  course.Repository
		repo     Repository
		resolver *Resolver
	}
)

func NewService(courses course.Repository, repo Repository) *Service {
	return &Service{
		courses:  courses,
		repo:     repo,
		resolver: NewResolver(courses),
	}
}

// GetLectureView returns the lecture as the identity may see it.
// Students only reach unlocked lectures and never see the answer key;
// instructors see the full payload.
func (svc *Service) GetLectureView(ctx context.Context, ident core.Identity, lectureID string) (LectureView, error) {
	lec, err := svc.courses.GetLectureByID(ctx, lectureID)
	if err != nil {
		return LectureView{}, err
	}
	view := LectureView{Lecture: lec}

	if ident.IsStudent() {
		ok, err := svc.resolver.Unlocked(ctx, svc.repo, ident.ID, lec)
		if err != nil {
			return LectureView{}, err
		}
		if !ok {
			return LectureView{}, ErrLectureLocked
		}
		if rec, err := svc.repo.GetProgress(ctx, ident.ID, lectureID); err == nil {
			view.Progress = &rec
		} else if errors.Cause(err) != ErrNotFound {
			return LectureView{}, err
		}
	}

	if lec.IsQuiz() {
		quiz, err := svc.courses.GetQuizByLectureID(ctx, lectureID)
		if err != nil {
			if errors.Cause(err) == course.ErrQuizNotFound {
				return view, nil
			}
			return LectureView{}, err
		}
		view.Quiz = newQuizView(quiz, !ident.IsStudent())
	}
	return view, nil
}

// CompleteReading marks a reading lecture completed for the student.
// Repeat calls are idempotent; the record never gains a score.
func (svc *Service) CompleteReading(ctx context.Context, ident core.Identity, lectureID string) (Progress, error) {
	if !ident.IsStudent() {
		return Progress{}, ErrNotStudent
	}
	lec, err := svc.courses.GetLectureByID(ctx, lectureID)
	if err != nil {
		return Progress{}, err
	}
	if !lec.IsReading() {
		return Progress{}, ErrNotReadingLecture
	}

	var rec Progress
	err = svc.repo.Atomic(ctx, func(repo Repository) error {
		ok, err := svc.resolver.Unlocked(ctx, repo, ident.ID, lec)
		if err != nil {
			return err
		}
		if !ok {
			return ErrLectureLocked
		}
		rec, err = repo.UpsertProgress(ctx, Progress{
			StudentID: ident.ID,
			LectureID: lectureID,
			Completed: true,
		})
		return errors.Wrap(err, "upserting progress")
	})
	if err != nil {
		return Progress{}, err
	}
	return rec, nil
}

// SubmitQuiz grades a submission and records the outcome. A failed attempt may
// be retried indefinitely, and a passed quiz may be re-submitted; either way
// the single record for the (student, lecture) pair is updated in place.
func (svc *Service) SubmitQuiz(ctx context.Context, ident core.Identity, lectureID string, answers map[string]int) (SubmissionResult, error) {
	if !ident.IsStudent() {
		return SubmissionResult{}, ErrNotStudent
	}
	lec, err := svc.courses.GetLectureByID(ctx, lectureID)
	if err != nil {
		return SubmissionResult{}, err
	}
	if !lec.IsQuiz() {
		return SubmissionResult{}, ErrNotQuizLecture
	}
	quiz, err := svc.courses.GetQuizByLectureID(ctx, lectureID)
	if err != nil {
		if errors.Cause(err) == course.ErrQuizNotFound {
			return SubmissionResult{}, ErrNotQuizLecture
		}
		return SubmissionResult{}, err
	}

	var res SubmissionResult
	err = svc.repo.Atomic(ctx, func(repo Repository) error {
		ok, err := svc.resolver.Unlocked(ctx, repo, ident.ID, lec)
		if err != nil {
			return err
		}
		if !ok {
			return ErrLectureLocked
		}

		result, err := Grade(quiz, answers)
		if err != nil {
			return err
		}

		score := result.Score
		rec, err := repo.UpsertProgress(ctx, Progress{
			StudentID: ident.ID,
			LectureID: lectureID,
			Completed: result.Passed,
			Score:     &score,
		})
		if err != nil {
			return errors.Wrap(err, "upserting progress")
		}
		res = SubmissionResult{GradeResult: result, Progress: rec}
		return nil
	})
	if err != nil {
		return SubmissionResult{}, err
	}
	return res, nil
}

// CourseProgress returns the student's progress records of one course,
// keyed by lecture ID.
func (svc *Service) CourseProgress(ctx context.Context, studentID, courseID string) (map[string]Progress, error) {
	records, err := svc.repo.QueryCourseProgress(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	byLecture := make(map[string]Progress, len(records))
	for _, rec := range records {
		byLecture[rec.LectureID] = rec
	}
	return byLecture, nil
}

// CourseSummary rolls the student's completion of one course up to
// completed/total/percentage.
func (svc *Service) CourseSummary(ctx context.Context, studentID, courseID string) (CourseSummary, error) {
	lectures, err := svc.courses.QueryLectures(ctx, courseID)
	if err != nil {
		return CourseSummary{}, err
	}
	byLecture, err := svc.CourseProgress(ctx, studentID, courseID)
	if err != nil {
		return CourseSummary{}, err
	}

	summary := CourseSummary{Total: len(lectures)}
	for _, lec := range lectures {
		if rec, ok := byLecture[lec.ID]; ok && rec.Completed {
			summary.Completed++
		}
	}
	if summary.Total > 0 {
		summary.Percentage = int(math.Round(float64(summary.Completed) / float64(summary.Total) * 100))
	}
	return summary, nil
}

package progress

import (
	"context"

	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/course"
)

// ErrInvalidSequence flags two lectures of one course sharing an order value.
// Access control relies on a strict total order; a tie is a fatal configuration
// error, never silently resolved.
var ErrInvalidSequence = errors.New("conflicting lecture order in course")

// Resolver decides which lectures of a course a student has unlocked.
type Resolver struct {
	courses course.Repository
}

func NewResolver(courses course.Repository) *Resolver {
	return &Resolver{courses: courses}
}

// Unlocked reports whether the student may act on the target lecture: true iff
// no lecture of the course is ordered strictly before it, or every such
// lecture has a completed Progress record for the student. The lecture with
// the minimum order is therefore always unlocked, whatever its actual order
// value. Progress reads go through repo so callers can bind them to the same
// transaction as a subsequent write.
func (r *Resolver) Unlocked(ctx context.Context, repo Repository, studentID string, target course.Lecture) (bool, error) {
	prior, err := r.courses.QueryPriorLectures(ctx, target.CourseID, target.Order)
	if err != nil {
		return false, errors.Wrap(err, "querying prior lectures")
	}
	if len(prior) == 0 {
		return true, nil
	}

	// Ties are checked among the prerequisites only; a lecture sharing the
	// target's own order is not this call's problem. The SQL schema rejects
	// ties outright via UNIQUE (course_id, "order").
	seen := make(map[int]bool, len(prior))
	ids := make([]string, 0, len(prior))
	for _, lec := range prior {
		if seen[lec.Order] {
			return false, errors.Wrapf(ErrInvalidSequence, "course %s, order %d", target.CourseID, lec.Order)
		}
		seen[lec.Order] = true
		ids = append(ids, lec.ID)
	}

	records, err := repo.QueryProgressByLectureIDs(ctx, studentID, ids)
	if err != nil {
		return false, errors.Wrap(err, "querying prerequisite progress")
	}
	completed := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.Completed {
			completed[rec.LectureID] = true
		}
	}
	for _, lec := range prior {
		if !completed[lec.ID] {
			return false, nil
		}
	}
	return true, nil
}

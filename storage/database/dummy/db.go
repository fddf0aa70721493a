package dummydb

import (
	"sync"

	"github.com/darasa-lms/darasa/core/course"
	"github.com/darasa-lms/darasa/core/progress"
)

type (
	DB struct {
		course   *courseTable
		progress *progressTable

		// txmu serializes Atomic closures so the read-prerequisites →
		// write-target sequence of one call never interleaves with another.
		txmu sync.Mutex
	}

	courseTable struct {
		sync.RWMutex
		courses  map[string]*course.Course
		lectures map[string]*course.Lecture
		quizzes  map[string]*course.Quiz // keyed by lecture ID
	}

	progressKey struct {
		studentID string
		lectureID string
	}

	progressTable struct {
		sync.RWMutex
		table map[progressKey]*progress.Progress
	}
)

func Open() (*DB, error) {
	db := &DB{
		course: &courseTable{
			courses:  make(map[string]*course.Course),
			lectures: make(map[string]*course.Lecture),
			quizzes:  make(map[string]*course.Quiz),
		},
		progress: &progressTable{table: make(map[progressKey]*progress.Progress)},
	}
	return db, nil
}

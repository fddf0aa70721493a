package sqlxrepos

import (
	"database/sql"
	"database/sql/driver"
	"net"
	"testing"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/course"
)

func Test_trapStoreErr(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantUnavailable bool
	}{
		{name: "bad connection", err: driver.ErrBadConn, wantUnavailable: true},
		{name: "connection done", err: sql.ErrConnDone, wantUnavailable: true},
		{name: "net error", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, wantUnavailable: true},
		{name: "pq connection exception", err: &pq.Error{Code: "08006"}, wantUnavailable: true},
		{name: "pq admin shutdown", err: &pq.Error{Code: "57P01"}, wantUnavailable: true},
		{name: "wrapped bad connection", err: errors.Wrap(driver.ErrBadConn, "pinging"), wantUnavailable: true},
		{name: "pq unique violation", err: &pq.Error{Code: "23505"}},
		{name: "plain error", err: errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := trapStoreErr(tt.err, "querying")
			if err == nil {
				t.Fatal("trapStoreErr() = nil; want an error")
			}
			if got := core.IsStoreUnavailable(err); got != tt.wantUnavailable {
				t.Errorf("IsStoreUnavailable() = %v; want %v (err %v)", got, tt.wantUnavailable, err)
			}
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		if err := trapStoreErr(nil, "querying"); err != nil {
			t.Errorf("trapStoreErr(nil) = %v; want nil", err)
		}
	})
}

func Test_trapNoRowsErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows maps to the sentinel", err: sql.ErrNoRows, want: course.ErrNotFound},
		{name: "wrapped no rows maps too", err: errors.Wrap(sql.ErrNoRows, "finding course"), want: course.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := trapNoRowsErr(tt.err, course.ErrNotFound, "finding course"); err != tt.want {
				t.Errorf("trapNoRowsErr() = %v; want %v", err, tt.want)
			}
		})
	}

	t.Run("connection errors stay store errors", func(t *testing.T) {
		err := trapNoRowsErr(driver.ErrBadConn, course.ErrNotFound, "finding course")
		if err == course.ErrNotFound {
			t.Fatal("trapNoRowsErr() = ErrNotFound; want a store error")
		}
		if !core.IsStoreUnavailable(err) {
			t.Errorf("IsStoreUnavailable() = false; want true (err %v)", err)
		}
	})

	t.Run("other errors are wrapped, not swallowed", func(t *testing.T) {
		boom := errors.New("boom")
		err := trapNoRowsErr(boom, course.ErrNotFound, "finding course")
		if err == course.ErrNotFound {
			t.Fatal("trapNoRowsErr() = ErrNotFound; want the wrapped original")
		}
		if errors.Cause(err) != boom {
			t.Errorf("errors.Cause() = %v; want %v", errors.Cause(err), boom)
		}
	})
}

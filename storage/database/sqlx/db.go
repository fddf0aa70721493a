package sqlxrepos

import (
	"database/sql"
	"database/sql/driver"
	"net"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
)

// trapNoRowsErr maps psql "no rows" to the given domain sentinel.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return trapStoreErr(err, msg)
}

// trapStoreErr surfaces transient connectivity failures as
// core.StoreUnavailableError so callers can tell them from hard errors.
func trapStoreErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if isConnErr(errors.Cause(err)) {
		return core.NewStoreUnavailableError(err)
	}
	return errors.Wrap(err, msg)
}

func isConnErr(err error) bool {
	if err == driver.ErrBadConn || err == sql.ErrConnDone {
		return true
	}
	if _, ok := err.(net.Error); ok {
		return true
	}
	if pqErr, ok := err.(*pq.Error); ok {
		// 08: connection exception; 57: operator intervention (shutdown et al.)
		class := pqErr.Code.Class()
		return class == "08" || class == "57"
	}
	return false
}

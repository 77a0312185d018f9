package postgres

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isBindParameterMismatch matches poolers that drop bind parameters between parse and bind.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bind message supplies") && strings.Contains(msg, "requires")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "26000" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unnamed prepared statement does not exist") ||
		(strings.Contains(msg, "prepared statement") && strings.Contains(msg, "26000"))
}

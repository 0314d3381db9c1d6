package core

import (
	"database/sql"
	"strings"
)

// Symbolic transaction isolation names accepted by
// SetDefaultTransactionIsolation.
const (
	IsolationNone            = "NONE"
	IsolationReadUncommitted = "READ_UNCOMMITTED"
	IsolationReadCommitted   = "READ_COMMITTED"
	IsolationRepeatableRead  = "REPEATABLE_READ"
	IsolationSerializable    = "SERIALIZABLE"
)

var isolationLevels = map[string]sql.IsolationLevel{
	IsolationNone:            sql.LevelDefault,
	IsolationReadUncommitted: sql.LevelReadUncommitted,
	IsolationReadCommitted:   sql.LevelReadCommitted,
	IsolationRepeatableRead:  sql.LevelRepeatableRead,
	IsolationSerializable:    sql.LevelSerializable,
}

// IsolationLevel maps a symbolic isolation name to its numeric
// database/sql constant. Unrecognized names fail with an
// UnsupportedIsolationLevel error.
func IsolationLevel(symbolic string) (sql.IsolationLevel, error) {
	return isolationLevel(nil, symbolic)
}

func isolationLevel(factory ErrorFactory, symbolic string) (sql.IsolationLevel, error) {
	name := strings.ToUpper(strings.TrimSpace(symbolic))
	level, ok := isolationLevels[name]
	if !ok {
		return sql.LevelDefault, newIsolationError(factory, symbolic)
	}
	return level, nil
}

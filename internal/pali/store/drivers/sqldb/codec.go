package sqldb

import (
	"database/sql"
	"time"
)

// The storage engines we target do not agree on a boolean type and some
// bindings turn a nil pointer into 0 or "" instead of NULL. Every value that
// crosses the driver boundary goes through these helpers: booleans are 0/1
// integers, timestamps are Unix seconds, optional timestamps are explicit
// sql.NullInt64.

func encodeBool(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// decodeBool treats any non-zero value as true.
func decodeBool(v int64) bool { return v != 0 }

func encodeTime(t time.Time) int64 { return t.Unix() }

func decodeTime(v int64) time.Time { return time.Unix(v, 0).UTC() }

func encodeOptionalTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func decodeOptionalTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := decodeTime(v.Int64)
	return &t
}

func encodeOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func decodeOptionalString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

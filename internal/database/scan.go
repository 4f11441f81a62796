package database

import (
	"database/sql"
	"fmt"
	"time"
)

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

type timeScanner struct {
	dst *time.Time
}

// ScanTime returns a Scanner that accepts the timestamp representations of
// both dialects: native time.Time from lib/pq and text from sqlite.
func ScanTime(dst *time.Time) sql.Scanner {
	return &timeScanner{dst: dst}
}

func (s *timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*s.dst = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	case int64:
		*s.dst = time.Unix(v, 0).UTC()
		return nil
	case nil:
		*s.dst = time.Time{}
		return nil
	}
	return fmt.Errorf("database: cannot scan %T into time.Time", src)
}

func (s *timeScanner) parse(v string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*s.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("database: unrecognised timestamp %q", v)
}

// Now is the timestamp stamped on inserted rows.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/tgienger/zt/internal/db"
	"github.com/tgienger/zt/internal/models"
)

// InputDateTime is the layout used in date-time text fields
const InputDateTime = "2006-01-02 15:04"

var dateTimeLayouts = []string{InputDateTime, "2006-01-02T15:04", "2006-01-02 15:04:05", models.DateTimeLayout}

// parseDate reads an optional YYYY-MM-DD field
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(models.DateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%q is not a date (YYYY-MM-DD)", s)
	}
	return &t, nil
}

// parseDateTime reads a required local date and time
func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a date and time (YYYY-MM-DD HH:MM)", s)
}

// filter keys persisted in the settings table
const (
	settingPlannerFilter = "planner_filter"
)

// filterKey encodes a planner filter for the settings table. Date filters
// are not remembered.
func filterKey(f db.Filter) string {
	switch f.Kind {
	case db.FilterTag:
		return "tag:" + f.Tag
	case db.FilterImportant, db.FilterCompleted, db.FilterAll:
		return string(f.Kind)
	}
	return ""
}

func parseFilterKey(s string) (db.Filter, bool) {
	if tag, ok := strings.CutPrefix(s, "tag:"); ok && tag != "" {
		return db.Filter{Kind: db.FilterTag, Tag: tag}, true
	}
	switch kind := db.FilterKind(s); kind {
	case db.FilterImportant, db.FilterCompleted, db.FilterAll:
		return db.Filter{Kind: kind}, true
	}
	return db.Filter{}, false
}

// startOfDay truncates t to local midnight
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

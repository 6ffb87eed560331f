package db

import (
	"sort"
	"strings"
)

// CleanTags trims each comma-separated tag and drops empty ones
func CleanTags(tags string) string {
	var cleaned []string
	for _, tag := range strings.Split(tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return strings.Join(cleaned, ",")
}

// TagCount is a tag with the number of uncompleted tasks carrying it
type TagCount struct {
	Name  string
	Count int
}

// TagCounts returns every tag used by an uncompleted task, sorted by name
func (db *DB) TagCounts() ([]TagCount, error) {
	rows, err := db.Query("SELECT tags FROM tasks WHERE is_completed = 0 AND tags != ''")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				counts[tag]++
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]TagCount, 0, len(counts))
	for name, n := range counts {
		result = append(result, TagCount{Name: name, Count: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

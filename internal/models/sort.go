package models

type SortKey string

const (
	SortNewest     SortKey = "created_date"
	SortName       SortKey = "name"
	SortExperience SortKey = "experience_years"
)

// ParseSortKey maps a query value onto a known sort key, falling back to
// newest-first. The backend owns the actual ordering.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortName:
		return SortName
	case SortExperience:
		return SortExperience
	}
	return SortNewest
}

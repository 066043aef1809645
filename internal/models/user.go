package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMentor:
		return RoleMentor, nil
	case RoleMentee:
		return RoleMentee, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID              int      `json:"id"`
	Email           string   `json:"email"`
	Role            Role     `json:"role"`
	Name            string   `json:"name"`
	Bio             string   `json:"bio"`
	ProfileImage    string   `json:"profile_image,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Company         string   `json:"company,omitempty"`
	ExperienceYears int      `json:"experience_years,omitempty"`
}

// MatchesFilter reports whether the user matches a free-text directory
// filter: case-insensitive substring over name, company and every skill.
func (u *User) MatchesFilter(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}

	if strings.Contains(strings.ToLower(u.Name), term) {
		return true
	}
	if u.Company != "" && strings.Contains(strings.ToLower(u.Company), term) {
		return true
	}
	for _, skill := range u.Skills {
		if strings.Contains(strings.ToLower(skill), term) {
			return true
		}
	}

	return false
}

func FilterMentors(mentors []User, term string) []User {
	if strings.TrimSpace(term) == "" {
		return mentors
	}

	filtered := make([]User, 0, len(mentors))
	for _, m := range mentors {
		if m.MatchesFilter(term) {
			filtered = append(filtered, m)
		}
	}

	return filtered
}

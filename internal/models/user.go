package models

import "strings"

// User is the locally simulated profile. There is no credential check.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// Initials returns the upper-cased first letters of the first two words of the name.
func (u *User) Initials() string {
	var initials []rune
	for _, word := range strings.Fields(u.Name) {
		initials = append(initials, []rune(word)[0])
		if len(initials) == 2 {
			break
		}
	}
	return strings.ToUpper(string(initials))
}

// DisplayName is the first name, or the first word of the full name.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if fields := strings.Fields(u.Name); len(fields) > 0 {
		return fields[0]
	}
	return u.Name
}

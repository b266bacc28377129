// Package admin holds back-office shop models used by collision tests.
package admin

// User is the back-office user representation.
type User struct {
	ID    int      `json:"id"`
	Roles []string `json:"roles"`
}

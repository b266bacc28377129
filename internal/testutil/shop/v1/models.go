// Package v1 holds version 1 shop models used by collision tests.
package v1

// User is the public user representation.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

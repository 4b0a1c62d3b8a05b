// Package domain contains core concepts of the chat client.
// This file defines the User entity held by the session.
// No runtime, network, or UI logic should be added here.
package domain

type UserID int64

// User is the authenticated identity returned by the backend.
// It is replaced wholesale on login and cleared on logout.
type User struct {
	ID           UserID
	Email        string
	FirstName    string
	LastName     string
	MobileNumber string
	Role         string
}

func (u User) DisplayName() string {
	if u.FirstName == "" {
		return u.Email
	}
	return u.FirstName
}

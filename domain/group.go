// Package domain contains core concepts of the chat client.
// This file defines the Group entity and its membership.
// Groups are immutable from the client's perspective once created.
package domain

type GroupID int64

type Group struct {
	ID        GroupID
	Name      string
	CreatedBy string // creator email
	MemberIDs []UserID
	Role      string // creator's role tag at creation time
}

// Package domain contains core concepts of the chat system.
// No runtime, network, or UI logic should be added here.
package domain

type UserID string

// User is the identity a connection acts as. Identities are owned by the
// external account collaborator; the core only reads them.
type User struct {
	ID       UserID `json:"id"`
	Nickname string `json:"nickname"`
}

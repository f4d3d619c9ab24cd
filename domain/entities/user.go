package entities

import (
	"github.com/google/uuid"
)

// User is an account. Friends is an ordered list of Person references; a
// person may appear in many accounts' lists, and must appear at most once in
// each. Version backs the optimistic lock on friends-list updates.
type User struct {
	ID           string `validate:"required"`
	Username     string `validate:"required,min=3"`
	PasswordHash string `validate:"required"`
	Friends      []*Person
	Version      int
}

// NewUser creates an account with a fresh id and an empty friends list
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		Friends:      []*Person{},
		Version:      0,
	}
}

// IsFriend reports whether the person is already on the friends list,
// compared by identity
func (u *User) IsFriend(person *Person) bool {
	for _, friend := range u.Friends {
		if friend.ID == person.ID {
			return true
		}
	}
	return false
}

// AddFriend appends the person to the friends list unless already present.
// It returns true when the list changed.
func (u *User) AddFriend(person *Person) bool {
	if u.IsFriend(person) {
		return false
	}
	u.Friends = append(u.Friends, person)
	return true
}

// FriendIDs returns the ordered person ids referenced by the friends list
func (u *User) FriendIDs() []string {
	ids := make([]string, len(u.Friends))
	for i, friend := range u.Friends {
		ids[i] = friend.ID
	}
	return ids
}

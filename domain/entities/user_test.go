package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_AddFriend(t *testing.T) {
	user := NewUser("ada", "hash")
	alice := NewPerson("Alice", nil, "1 Main", "X")
	bob := NewPerson("Bob", nil, "2 Side", "Y")

	assert.True(t, user.AddFriend(alice))
	assert.True(t, user.AddFriend(bob))

	// A second add of the same person is a no-op
	assert.False(t, user.AddFriend(alice))

	require.Len(t, user.Friends, 2)
	assert.Equal(t, []string{alice.ID, bob.ID}, user.FriendIDs())
	assert.True(t, user.IsFriend(alice))
	assert.False(t, user.IsFriend(NewPerson("Carol", nil, "3 Back", "Z")))
}

func TestPerson_Address(t *testing.T) {
	person := NewPerson("Ada", nil, "1 Main", "X")

	assert.Equal(t, Address{Street: "1 Main", City: "X"}, person.Address())
	assert.False(t, person.HasPhone())

	phone := "040-123456"
	person.Phone = &phone
	assert.True(t, person.HasPhone())
}

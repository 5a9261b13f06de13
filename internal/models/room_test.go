package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomMembership(t *testing.T) {
	room := &Room{Code: "1234", HostID: "a", Members: []string{"a"}}

	assert.True(t, room.HasMember("a"))
	assert.False(t, room.HasMember("b"))

	assert.True(t, room.AddMember("b"))
	assert.False(t, room.AddMember("b"), "re-adding an existing member is a no-op")
	assert.Equal(t, []string{"a", "b"}, room.Members)

	assert.True(t, room.RemoveMember("a"))
	assert.False(t, room.RemoveMember("a"))
	assert.Equal(t, []string{"b"}, room.Members)
}

func TestRoomRemoveMember_PreservesOrder(t *testing.T) {
	room := &Room{Members: []string{"a", "b", "c", "d"}}
	room.RemoveMember("b")
	assert.Equal(t, []string{"a", "c", "d"}, room.Members)
}

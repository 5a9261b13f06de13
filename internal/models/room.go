package models

import "time"

// Room is a shared visibility group identified by a 4-digit code. Members see
// each other's holdings; the host can kick members. Members preserves join
// order, which drives host reassignment when the host leaves.
type Room struct {
	Code      string    `json:"code"`
	HostID    string    `json:"hostId"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasMember reports whether userID is currently a member.
func (r *Room) HasMember(userID string) bool {
	for _, m := range r.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// AddMember appends userID to the member list if absent. Returns true if the
// list changed.
func (r *Room) AddMember(userID string) bool {
	if r.HasMember(userID) {
		return false
	}
	r.Members = append(r.Members, userID)
	return true
}

// RemoveMember removes userID from the member list, preserving the order of
// the remaining members. Returns true if the list changed.
func (r *Room) RemoveMember(userID string) bool {
	for i, m := range r.Members {
		if m == userID {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return true
		}
	}
	return false
}

// RoomMember is the member summary embedded in room detail responses.
type RoomMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// RoomDetail is a Room with member identities resolved, returned by the
// active-room endpoint so clients can render the roster directly.
type RoomDetail struct {
	Code      string       `json:"code"`
	HostID    string       `json:"hostId"`
	Members   []RoomMember `json:"members"`
	CreatedAt time.Time    `json:"createdAt"`
}

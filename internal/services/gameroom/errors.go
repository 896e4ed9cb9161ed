package gameroom

import "github.com/pkg/errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrNotSeated     = errors.New("connection is not seated in this room")
	ErrSamePlayer    = errors.New("a room needs two distinct connections")
	ErrAlreadySeated = errors.New("connection is already seated in another room")
	ErrIDCollision   = errors.New("room id generator returned an id already in use")
)

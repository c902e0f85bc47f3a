package idgen

import "github.com/google/uuid"

// UUID v4 で採番する
type UUIDGenerator struct{}

func (g UUIDGenerator) NewID() string {
	return uuid.NewString()
}

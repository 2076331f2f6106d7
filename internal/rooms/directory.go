// Package rooms answers room existence questions for the event service.
// Rooms themselves are owned by another service.
package rooms

import (
	"context"
	"strings"
)

// StaticDirectory knows a fixed set of room ids. An empty directory
// accepts every room.
type StaticDirectory struct {
	ids map[string]struct{}
}

// NewStaticDirectory builds a directory from ids; blanks are ignored.
func NewStaticDirectory(ids []string) *StaticDirectory {
	d := &StaticDirectory{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			d.ids[id] = struct{}{}
		}
	}
	return d
}

func (d *StaticDirectory) RoomExists(_ context.Context, roomID string) (bool, error) {
	if len(d.ids) == 0 {
		return strings.TrimSpace(roomID) != "", nil
	}
	_, ok := d.ids[roomID]
	return ok, nil
}

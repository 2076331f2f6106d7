package events

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// memStore is an in-memory Store and CommentStore. conflicts makes the next
// n SaveEvent calls fail with CONFLICT.
type memStore struct {
	mu        sync.Mutex
	events    map[string]*models.Event
	comments  map[string]*models.Comment
	reads     map[string]time.Time
	conflicts int
	saves     int
}

func newMemStore() *memStore {
	return &memStore{
		events:   make(map[string]*models.Event),
		comments: make(map[string]*models.Comment),
		reads:    make(map[string]time.Time),
	}
}

func (m *memStore) CreateEvent(_ context.Context, ev *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[ev.ID] = ev.Clone()
	return nil
}

func (m *memStore) GetEvent(_ context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "event not found")
	}
	return ev.Clone(), nil
}

func (m *memStore) GetEventByShortCode(_ context.Context, code string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.ShortCode == code {
			return ev.Clone(), nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "event not found")
}

func (m *memStore) ListEventsByRoom(_ context.Context, roomID string) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Event
	for _, ev := range m.events {
		if ev.RoomID == roomID {
			out = append(out, ev.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) SaveEvent(_ context.Context, ev *models.Event, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.conflicts > 0 {
		m.conflicts--
		return apperrors.New(apperrors.CodeConflict, "version mismatch")
	}
	cur, ok := m.events[ev.ID]
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, "event not found")
	}
	if cur.Version != expectedVersion {
		return apperrors.New(apperrors.CodeConflict, "version mismatch")
	}
	m.events[ev.ID] = ev.Clone()
	return nil
}

func (m *memStore) DeleteEvent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return apperrors.New(apperrors.CodeNotFound, "event not found")
	}
	delete(m.events, id)
	for cid, c := range m.comments {
		if c.EventID == id {
			delete(m.comments, cid)
		}
	}
	return nil
}

func (m *memStore) ShortCodeTaken(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.ShortCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) stored(id string) *models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[id].Clone()
}

func (m *memStore) CreateComment(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.comments[c.ID] = &cp
	return nil
}

func (m *memStore) GetComment(_ context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "comment not found")
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) ListComments(_ context.Context, eventID string, q models.CommentQuery) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Comment
	for _, c := range m.comments {
		if c.EventID != eventID || (q.Phase != "" && c.Phase != q.Phase) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if q.Skip >= len(out) {
		return nil, nil
	}
	out = out[q.Skip:]
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memStore) DeleteComment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.comments, id)
	return nil
}

func (m *memStore) MarkCommentsRead(_ context.Context, eventID, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[eventID+"/"+userID] = at
	return nil
}

func (m *memStore) CountUnreadComments(_ context.Context, eventID, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mark := m.reads[eventID+"/"+userID]
	n := 0
	for _, c := range m.comments {
		if c.EventID == eventID && c.UserID != userID && c.CreatedAt.After(mark) {
			n++
		}
	}
	return n, nil
}

type staticRooms []string

func (r staticRooms) RoomExists(_ context.Context, roomID string) (bool, error) {
	return slices.Contains(r, roomID), nil
}

type recordingCleaner struct {
	urls []string
	err  error
}

func (c *recordingCleaner) DeleteAsset(_ context.Context, url string) error {
	c.urls = append(c.urls, url)
	return c.err
}

// testClock advances by one second on every call.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
	}
}

package fakeapi

import (
	"context"
	"errors"
	"sync"

	"github.com/nvbf/event-seed/repos/eventapi"
)

var ErrNotFound = errors.New("not found")

// StoredImage is an uploaded event image.
type StoredImage struct {
	ID          string `firestore:"Id"`
	EventID     string `firestore:"EventId"`
	Name        string `firestore:"Name"`
	ContentType string `firestore:"ContentType"`
	Size        int    `firestore:"Size"`
	Data        []byte `firestore:"-"`
}

// Store persists the entities of the fake API. Get methods return
// ErrNotFound for unknown ids.
type Store interface {
	CreateUser(ctx context.Context, user eventapi.User) error
	GetUser(ctx context.Context, id string) (*eventapi.User, error)
	CreateTag(ctx context.Context, tag eventapi.Tag) error
	GetTag(ctx context.Context, id string) (*eventapi.Tag, error)
	CreateEvent(ctx context.Context, event eventapi.Event) error
	GetEvent(ctx context.Context, id string) (*eventapi.Event, error)
	AddEventImage(ctx context.Context, image StoredImage) error
}

type MemoryStore struct {
	mutex  sync.RWMutex
	users  map[string]eventapi.User
	tags   map[string]eventapi.Tag
	events map[string]eventapi.Event
	images map[string]StoredImage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]eventapi.User),
		tags:   make(map[string]eventapi.Tag),
		events: make(map[string]eventapi.Event),
		images: make(map[string]StoredImage),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user eventapi.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*eventapi.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) CreateTag(_ context.Context, tag eventapi.Tag) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	tag.Aliases = append([]string(nil), tag.Aliases...)
	s.tags[tag.ID] = tag
	return nil
}

func (s *MemoryStore) GetTag(_ context.Context, id string) (*eventapi.Tag, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	tag, ok := s.tags[id]
	if !ok {
		return nil, ErrNotFound
	}
	tag.Aliases = append([]string(nil), tag.Aliases...)
	return &tag, nil
}

func (s *MemoryStore) CreateEvent(_ context.Context, event eventapi.Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.events[event.ID] = copyEvent(event)
	return nil
}

func (s *MemoryStore) GetEvent(_ context.Context, id string) (*eventapi.Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	event, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	event = copyEvent(event)
	return &event, nil
}

func (s *MemoryStore) AddEventImage(_ context.Context, image StoredImage) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	event, ok := s.events[image.EventID]
	if !ok {
		return ErrNotFound
	}
	event.ImageIDs = append(event.ImageIDs, image.ID)
	s.events[image.EventID] = event
	s.images[image.ID] = image
	return nil
}

// Image returns a stored image, including its bytes.
func (s *MemoryStore) Image(id string) (StoredImage, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	image, ok := s.images[id]
	return image, ok
}

func copyEvent(event eventapi.Event) eventapi.Event {
	event.TagIDs = append([]string(nil), event.TagIDs...)
	event.ImageIDs = append([]string(nil), event.ImageIDs...)
	return event
}

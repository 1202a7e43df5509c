package fakeapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/samborkent/uuidv7"
	"golang.org/x/xerrors"

	"github.com/nvbf/event-seed/repos/eventapi"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnknownReference = errors.New("unknown reference")
)

// FakeAPIService implements the event API on top of a Store.
type FakeAPIService struct {
	store  Store
	logger *slog.Logger
	newID  func() string
}

func NewFakeAPIService(store Store, logger *slog.Logger) *FakeAPIService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FakeAPIService{
		store:  store,
		logger: logger,
		newID: func() string {
			return uuidv7.New().String()
		},
	}
}

func (s *FakeAPIService) CreateUser(ctx context.Context, req eventapi.CreateUserRequest) (*eventapi.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, xerrors.Errorf("name is required: %w", ErrInvalidArgument)
	}

	user := eventapi.User{ID: s.newID(), Name: name}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created", "user_id", user.ID)
	return &user, nil
}

func (s *FakeAPIService) FindUser(ctx context.Context, req eventapi.FindRequest) (*eventapi.User, error) {
	if err := requireID(req); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, req.ID)
}

func (s *FakeAPIService) CreateTag(ctx context.Context, req eventapi.CreateTagRequest) (*eventapi.Tag, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, xerrors.Errorf("name is required: %w", ErrInvalidArgument)
	}

	tag := eventapi.Tag{ID: s.newID(), Name: name, Aliases: cleanAliases(req.Aliases)}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	s.logger.Info("tag created", "tag_id", tag.ID)
	return &tag, nil
}

func (s *FakeAPIService) FindTag(ctx context.Context, req eventapi.FindRequest) (*eventapi.Tag, error) {
	if err := requireID(req); err != nil {
		return nil, err
	}
	return s.store.GetTag(ctx, req.ID)
}

func (s *FakeAPIService) CreateEvent(ctx context.Context, req eventapi.CreateEventRequest) (*eventapi.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, xerrors.Errorf("title is required: %w", ErrInvalidArgument)
	}
	if req.AuthorID == "" {
		return nil, xerrors.Errorf("authorId is required: %w", ErrInvalidArgument)
	}

	if _, err := s.store.GetUser(ctx, req.AuthorID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, xerrors.Errorf("author %s: %w", req.AuthorID, ErrUnknownReference)
		}
		return nil, err
	}
	for _, tagID := range req.TagIDs {
		if _, err := s.store.GetTag(ctx, tagID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, xerrors.Errorf("tag %s: %w", tagID, ErrUnknownReference)
			}
			return nil, err
		}
	}

	event := eventapi.Event{
		ID:       s.newID(),
		AuthorID: req.AuthorID,
		Title:    title,
		TagIDs:   append([]string{}, req.TagIDs...),
		ImageIDs: []string{},
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Attending != nil {
		event.Attending = *req.Attending
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	s.logger.Info("event created", "event_id", event.ID, "author_id", event.AuthorID)
	return &event, nil
}

func (s *FakeAPIService) FindEvent(ctx context.Context, req eventapi.FindRequest) (*eventapi.Event, error) {
	if err := requireID(req); err != nil {
		return nil, err
	}
	return s.store.GetEvent(ctx, req.ID)
}

// UploadImage stores data as a new image of eventID and returns the image id.
func (s *FakeAPIService) UploadImage(ctx context.Context, eventID, name, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", xerrors.Errorf("image is empty: %w", ErrInvalidArgument)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", xerrors.Errorf("content type %q is not an image: %w", contentType, ErrInvalidArgument)
	}

	image := StoredImage{
		ID:          s.newID(),
		EventID:     eventID,
		Name:        name,
		ContentType: contentType,
		Size:        len(data),
		Data:        data,
	}
	if err := s.store.AddEventImage(ctx, image); err != nil {
		return "", err
	}
	s.logger.Info("image uploaded", "event_id", eventID, "image_id", image.ID, "size", image.Size)
	return image.ID, nil
}

func requireID(req eventapi.FindRequest) error {
	if strings.TrimSpace(req.ID) == "" {
		return xerrors.Errorf("id is required: %w", ErrInvalidArgument)
	}
	return nil
}

func cleanAliases(aliases []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(aliases))
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		if _, ok := seen[alias]; ok {
			continue
		}
		seen[alias] = struct{}{}
		out = append(out, alias)
	}
	return out
}

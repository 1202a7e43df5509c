package eventapi

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nvbf/event-seed/pkg/rpc"
	"golang.org/x/xerrors"
)

var (
	ErrNotFound  = errors.New("entity not found")
	ErrMissingID = errors.New("create response is missing an id")
)

// Service wraps the user, tag and event procedures of the event API.
type Service struct {
	transport rpc.Transport
	logger    *slog.Logger
}

// NewService creates a client on top of an RPC transport.
func NewService(transport rpc.Transport, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		transport: transport,
		logger:    logger,
	}
}

func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var user User
	if err := s.transport.Invoke(ctx, CreateUserProcedure, &req, &user); err != nil {
		return nil, xerrors.Errorf("create user %q: %w", req.Name, err)
	}
	if user.ID == "" {
		return nil, xerrors.Errorf("create user %q: %w", req.Name, ErrMissingID)
	}
	s.logger.Debug("user created", "user_id", user.ID, "name", user.Name)
	return &user, nil
}

func (s *Service) FindUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := s.find(ctx, FindUserProcedure, id, &user); err != nil {
		return nil, xerrors.Errorf("find user %s: %w", id, err)
	}
	return &user, nil
}

func (s *Service) CreateTag(ctx context.Context, req CreateTagRequest) (*Tag, error) {
	var tag Tag
	if err := s.transport.Invoke(ctx, CreateTagProcedure, &req, &tag); err != nil {
		return nil, xerrors.Errorf("create tag %q: %w", req.Name, err)
	}
	if tag.ID == "" {
		return nil, xerrors.Errorf("create tag %q: %w", req.Name, ErrMissingID)
	}
	s.logger.Debug("tag created", "tag_id", tag.ID, "name", tag.Name)
	return &tag, nil
}

func (s *Service) FindTag(ctx context.Context, id string) (*Tag, error) {
	var tag Tag
	if err := s.find(ctx, FindTagProcedure, id, &tag); err != nil {
		return nil, xerrors.Errorf("find tag %s: %w", id, err)
	}
	return &tag, nil
}

func (s *Service) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	var event Event
	if err := s.transport.Invoke(ctx, CreateEventProcedure, &req, &event); err != nil {
		return nil, xerrors.Errorf("create event %q: %w", req.Title, err)
	}
	if event.ID == "" {
		return nil, xerrors.Errorf("create event %q: %w", req.Title, ErrMissingID)
	}
	s.logger.Debug("event created", "event_id", event.ID, "author_id", event.AuthorID)
	return &event, nil
}

func (s *Service) FindEvent(ctx context.Context, id string) (*Event, error) {
	var event Event
	if err := s.find(ctx, FindEventProcedure, id, &event); err != nil {
		return nil, xerrors.Errorf("find event %s: %w", id, err)
	}
	return &event, nil
}

func (s *Service) find(ctx context.Context, procedure, id string, res any) error {
	err := s.transport.Invoke(ctx, procedure, &FindRequest{ID: id}, res)
	if rpc.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

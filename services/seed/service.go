package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"time"

	"github.com/xorcare/pointer"
	"golang.org/x/xerrors"

	runid "github.com/nvbf/event-seed/pkg/runID"
	"github.com/nvbf/event-seed/repos/eventapi"
	"github.com/nvbf/event-seed/repos/images"
)

var (
	ErrIDMismatch       = errors.New("find returned a different id")
	ErrImageNotAttached = errors.New("uploaded image is not attached to the event")
)

// Events is the subset of the event API the seeder drives.
type Events interface {
	CreateUser(ctx context.Context, req eventapi.CreateUserRequest) (*eventapi.User, error)
	FindUser(ctx context.Context, id string) (*eventapi.User, error)
	CreateTag(ctx context.Context, req eventapi.CreateTagRequest) (*eventapi.Tag, error)
	FindTag(ctx context.Context, id string) (*eventapi.Tag, error)
	CreateEvent(ctx context.Context, req eventapi.CreateEventRequest) (*eventapi.Event, error)
	FindEvent(ctx context.Context, id string) (*eventapi.Event, error)
}

type Images interface {
	Fetch(ctx context.Context, rawURL, name string) (*images.Image, error)
	Upload(ctx context.Context, eventID string, image *images.Image) (string, error)
}

type Options struct {
	Dataset      Dataset
	ImageBaseURL string
	RunID        string
	UniqueNames  bool
	Logger       *slog.Logger
}

type SeedService struct {
	events Events
	images Images
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

func NewSeedService(eventService Events, imageService Images, opts Options) *SeedService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RunID == "" {
		opts.RunID = runid.New()
	}
	return &SeedService{
		events: eventService,
		images: imageService,
		opts:   opts,
		logger: logger.With("run_id", opts.RunID),
		now:    time.Now,
	}
}

// Run creates the dataset in order: users, tags, events, then event images.
// It stops at the first failure; entities created before it stay created.
func (s *SeedService) Run(ctx context.Context) (*Report, error) {
	if err := s.opts.Dataset.Validate(); err != nil {
		return nil, err
	}

	report := &Report{RunID: s.opts.RunID, StartedAt: s.now()}
	s.logger.Info("seed started",
		"users", len(s.opts.Dataset.Users),
		"tags", len(s.opts.Dataset.Tags),
		"events", len(s.opts.Dataset.Events),
	)

	err := s.seed(ctx, report)
	report.Duration = s.now().Sub(report.StartedAt)
	if err != nil {
		return report, err
	}

	s.logger.Info("seed finished",
		"users", len(report.Users),
		"tags", len(report.Tags),
		"events", len(report.Events),
		"images", report.ImageCount(),
		"duration", report.Duration.String(),
	)
	return report, nil
}

func (s *SeedService) seed(ctx context.Context, report *Report) error {
	userIDs, err := s.seedUsers(ctx, report)
	if err != nil {
		return err
	}
	tagIDs, err := s.seedTags(ctx, report)
	if err != nil {
		return err
	}
	return s.seedEvents(ctx, report, userIDs, tagIDs)
}

func (s *SeedService) seedUsers(ctx context.Context, report *Report) (map[string]string, error) {
	ids := make(map[string]string, len(s.opts.Dataset.Users))
	for _, u := range s.opts.Dataset.Users {
		created, err := s.events.CreateUser(ctx, eventapi.CreateUserRequest{Name: s.name(u.Name)})
		if err != nil {
			return nil, err
		}
		found, err := s.events.FindUser(ctx, created.ID)
		if err != nil {
			return nil, err
		}
		if err := sameID("user", created.ID, found.ID); err != nil {
			return nil, err
		}

		ids[u.Key] = created.ID
		report.Users = append(report.Users, *found)
		s.logger.Info("user seeded", "key", u.Key, "user_id", created.ID)
	}
	return ids, nil
}

func (s *SeedService) seedTags(ctx context.Context, report *Report) (map[string]string, error) {
	ids := make(map[string]string, len(s.opts.Dataset.Tags))
	for _, tag := range s.opts.Dataset.Tags {
		created, err := s.events.CreateTag(ctx, eventapi.CreateTagRequest{
			Name:    s.name(tag.Name),
			Aliases: tag.Aliases,
		})
		if err != nil {
			return nil, err
		}
		found, err := s.events.FindTag(ctx, created.ID)
		if err != nil {
			return nil, err
		}
		if err := sameID("tag", created.ID, found.ID); err != nil {
			return nil, err
		}

		ids[tag.Key] = created.ID
		report.Tags = append(report.Tags, *found)
		s.logger.Info("tag seeded", "key", tag.Key, "tag_id", created.ID)
	}
	return ids, nil
}

func (s *SeedService) seedEvents(ctx context.Context, report *Report, userIDs, tagIDs map[string]string) error {
	for _, e := range s.opts.Dataset.Events {
		req := eventapi.CreateEventRequest{
			AuthorID:  userIDs[e.Author],
			Title:     e.Title,
			TagIDs:    make([]string, 0, len(e.Tags)),
			Attending: pointer.Bool(e.Attending),
		}
		if e.Description != "" {
			req.Description = pointer.String(e.Description)
		}
		for _, tagKey := range e.Tags {
			req.TagIDs = append(req.TagIDs, tagIDs[tagKey])
		}

		created, err := s.events.CreateEvent(ctx, req)
		if err != nil {
			return err
		}
		found, err := s.events.FindEvent(ctx, created.ID)
		if err != nil {
			return err
		}
		if err := sameID("event", created.ID, found.ID); err != nil {
			return err
		}
		s.logger.Info("event seeded", "key", e.Key, "event_id", created.ID, "author_id", req.AuthorID)

		if e.ImageSlug != "" {
			found, err = s.attachImage(ctx, created.ID, e.ImageSlug)
			if err != nil {
				return err
			}
		}
		report.Events = append(report.Events, *found)
	}
	return nil
}

func (s *SeedService) attachImage(ctx context.Context, eventID, slug string) (*eventapi.Event, error) {
	image, err := s.images.Fetch(ctx, s.imageURL(slug), slug)
	if err != nil {
		return nil, err
	}
	imageID, err := s.images.Upload(ctx, eventID, image)
	if err != nil {
		return nil, err
	}
	s.logger.Info("image attached", "event_id", eventID, "image_id", imageID, "size", len(image.Data))

	event, err := s.events.FindEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := sameID("event", eventID, event.ID); err != nil {
		return nil, err
	}
	if !slices.Contains(event.ImageIDs, imageID) {
		return nil, xerrors.Errorf("event %s image %s: %w", eventID, imageID, ErrImageNotAttached)
	}
	return event, nil
}

func (s *SeedService) imageURL(slug string) string {
	return fmt.Sprintf("%s/seed/%s/800/600", s.opts.ImageBaseURL, url.PathEscape(slug))
}

func (s *SeedService) name(name string) string {
	if !s.opts.UniqueNames {
		return name
	}
	return runid.Label(name, s.opts.RunID)
}

func sameID(kind, created, found string) error {
	if created != found {
		return xerrors.Errorf("%s %s: got %q: %w", kind, created, found, ErrIDMismatch)
	}
	return nil
}

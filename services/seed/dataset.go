package seed

import (
	"errors"

	"golang.org/x/xerrors"
)

var ErrInvalidDataset = errors.New("invalid dataset")

// UserSeed, TagSeed and EventSeed reference each other by Key. Keys are
// local to the dataset and are resolved to remote ids during a run.
type UserSeed struct {
	Key  string
	Name string
}

type TagSeed struct {
	Key     string
	Name    string
	Aliases []string
}

type EventSeed struct {
	Key         string
	Author      string
	Title       string
	Description string
	Tags        []string
	Attending   bool
	ImageSlug   string
}

type Dataset struct {
	Users  []UserSeed
	Tags   []TagSeed
	Events []EventSeed
}

// DefaultDataset is the fixed set of records created by the seeder.
func DefaultDataset() Dataset {
	return Dataset{
		Users: []UserSeed{
			{Key: "kari", Name: "Kari Nordmann"},
			{Key: "ola", Name: "Ola Nordmann"},
			{Key: "ingrid", Name: "Ingrid Berg"},
		},
		Tags: []TagSeed{
			{Key: "beach", Name: "Beach", Aliases: []string{"sand", "beachvolley"}},
			{Key: "indoor", Name: "Indoor", Aliases: []string{"hall"}},
			{Key: "tournament", Name: "Tournament", Aliases: []string{"cup", "turnering"}},
			{Key: "social", Name: "Social", Aliases: []string{"meetup"}},
		},
		Events: []EventSeed{
			{
				Key:         "summer-cup",
				Author:      "kari",
				Title:       "Summer Beach Cup",
				Description: "Two-day beach tournament with mixed pairs.",
				Tags:        []string{"beach", "tournament"},
				Attending:   true,
				ImageSlug:   "summer-cup",
			},
			{
				Key:         "winter-league",
				Author:      "ola",
				Title:       "Winter Indoor League",
				Description: "Weekly indoor league games through the winter.",
				Tags:        []string{"indoor", "tournament"},
				Attending:   false,
				ImageSlug:   "winter-league",
			},
			{
				Key:       "after-party",
				Author:    "ingrid",
				Title:     "Season After Party",
				Tags:      []string{"social"},
				Attending: true,
				ImageSlug: "after-party",
			},
		},
	}
}

// Validate checks keys and references before any remote call is made.
func (d Dataset) Validate() error {
	users := make(map[string]struct{}, len(d.Users))
	for _, u := range d.Users {
		if u.Key == "" || u.Name == "" {
			return xerrors.Errorf("user %q needs a key and a name: %w", u.Key, ErrInvalidDataset)
		}
		if _, ok := users[u.Key]; ok {
			return xerrors.Errorf("duplicate user key %q: %w", u.Key, ErrInvalidDataset)
		}
		users[u.Key] = struct{}{}
	}

	tags := make(map[string]struct{}, len(d.Tags))
	for _, tag := range d.Tags {
		if tag.Key == "" || tag.Name == "" {
			return xerrors.Errorf("tag %q needs a key and a name: %w", tag.Key, ErrInvalidDataset)
		}
		if _, ok := tags[tag.Key]; ok {
			return xerrors.Errorf("duplicate tag key %q: %w", tag.Key, ErrInvalidDataset)
		}
		tags[tag.Key] = struct{}{}
	}

	events := make(map[string]struct{}, len(d.Events))
	for _, e := range d.Events {
		if e.Key == "" || e.Title == "" {
			return xerrors.Errorf("event %q needs a key and a title: %w", e.Key, ErrInvalidDataset)
		}
		if _, ok := events[e.Key]; ok {
			return xerrors.Errorf("duplicate event key %q: %w", e.Key, ErrInvalidDataset)
		}
		events[e.Key] = struct{}{}

		if _, ok := users[e.Author]; !ok {
			return xerrors.Errorf("event %q references unknown user %q: %w", e.Key, e.Author, ErrInvalidDataset)
		}
		for _, tagKey := range e.Tags {
			if _, ok := tags[tagKey]; !ok {
				return xerrors.Errorf("event %q references unknown tag %q: %w", e.Key, tagKey, ErrInvalidDataset)
			}
		}
	}

	return nil
}

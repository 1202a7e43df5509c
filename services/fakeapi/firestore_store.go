package fakeapi

import (
	"context"

	"cloud.google.com/go/firestore"
	"golang.org/x/xerrors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nvbf/event-seed/repos/eventapi"
)

const (
	usersCollection  = "Users"
	tagsCollection   = "Tags"
	eventsCollection = "Events"
	imagesCollection = "Images"
)

// FirestoreStore keeps the fake API's entities in Firestore. Image bytes
// are not persisted, only their metadata.
type FirestoreStore struct {
	Client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{
		Client: client,
	}
}

func (s *FirestoreStore) CreateUser(ctx context.Context, user eventapi.User) error {
	if _, err := s.Client.Collection(usersCollection).Doc(user.ID).Set(ctx, user); err != nil {
		return xerrors.Errorf("failed to set user in Firestore: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetUser(ctx context.Context, id string) (*eventapi.User, error) {
	var user eventapi.User
	if err := s.get(ctx, usersCollection, id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *FirestoreStore) CreateTag(ctx context.Context, tag eventapi.Tag) error {
	if _, err := s.Client.Collection(tagsCollection).Doc(tag.ID).Set(ctx, tag); err != nil {
		return xerrors.Errorf("failed to set tag in Firestore: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetTag(ctx context.Context, id string) (*eventapi.Tag, error) {
	var tag eventapi.Tag
	if err := s.get(ctx, tagsCollection, id, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *FirestoreStore) CreateEvent(ctx context.Context, event eventapi.Event) error {
	if _, err := s.Client.Collection(eventsCollection).Doc(event.ID).Set(ctx, event); err != nil {
		return xerrors.Errorf("failed to set event in Firestore: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetEvent(ctx context.Context, id string) (*eventapi.Event, error) {
	var event eventapi.Event
	if err := s.get(ctx, eventsCollection, id, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// AddEventImage records the image and appends its id to the event in one transaction.
func (s *FirestoreStore) AddEventImage(ctx context.Context, image StoredImage) error {
	eventRef := s.Client.Collection(eventsCollection).Doc(image.EventID)
	imageRef := s.Client.Collection(imagesCollection).Doc(image.ID)

	err := s.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(eventRef); err != nil {
			return err
		}
		if err := tx.Set(imageRef, image); err != nil {
			return err
		}
		return tx.Update(eventRef, []firestore.Update{
			{Path: "ImageIds", Value: firestore.ArrayUnion(image.ID)},
		})
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return xerrors.Errorf("failed to add image to event %s: %w", image.EventID, err)
	}
	return nil
}

func (s *FirestoreStore) get(ctx context.Context, collection, id string, dst any) error {
	doc, err := s.Client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return xerrors.Errorf("failed to get %s/%s from Firestore: %w", collection, id, err)
	}

	if err := doc.DataTo(dst); err != nil {
		// We control both the data written to Firestore and the shape of
		// the target struct, so this is a consistency error.
		return xerrors.Errorf(
			"consistency error. Converting %s/%s failed: %w",
			collection,
			id,
			err,
		)
	}
	return nil
}

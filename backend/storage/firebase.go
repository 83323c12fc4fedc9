package storage

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"firedev/backend/models"
)

const (
	locationsPath   = "locations"
	healthProbePath = "_health_probe"
)

// FirebaseStore keeps reports in Firebase Realtime Database under the
// locations collection.
type FirebaseStore struct {
	client *db.Client
}

func NewFirebaseStore(ctx context.Context, databaseURL, credentialsFile string) (*FirebaseStore, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL},
		option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to realtime database: %w", err)
	}
	return &FirebaseStore{client: client}, nil
}

// Ping does a write-then-delete probe to confirm connectivity and
// write permissions. The probe key never outlives the call.
func (s *FirebaseStore) Ping(ctx context.Context) error {
	probe := s.client.NewRef(healthProbePath)
	if err := probe.Set(ctx, map[string]any{"ts": time.Now().Unix()}); err != nil {
		return fmt.Errorf("health probe write: %w", err)
	}
	if err := probe.Delete(ctx); err != nil {
		return fmt.Errorf("health probe delete: %w", err)
	}
	return nil
}

func (s *FirebaseStore) Create(ctx context.Context, rec models.Record) (string, error) {
	ref, err := s.client.NewRef(locationsPath).Push(ctx, map[string]any(rec))
	if err != nil {
		return "", fmt.Errorf("pushing report: %w", err)
	}
	return ref.Key, nil
}

func (s *FirebaseStore) Upsert(ctx context.Context, id string, rec models.Record) error {
	if err := s.client.NewRef(locationsPath).Child(id).Set(ctx, map[string]any(rec)); err != nil {
		return fmt.Errorf("upserting report %s: %w", id, err)
	}
	return nil
}

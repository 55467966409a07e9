package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/vidhub/internal/client/storage"
	"github.com/iudanet/vidhub/pkg/api"
)

var currentKey = []byte("current")

// SaveAuth stores authentication data
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	return s.put(bucketAuth, auth)
}

// GetAuth retrieves stored authentication data
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	auth := &storage.AuthData{}
	if err := s.get(bucketAuth, auth); err != nil {
		return nil, err
	}
	return auth, nil
}

// DeleteAuth removes stored authentication data and the cached profile
func (s *Storage) DeleteAuth(ctx context.Context) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		if bucket.Get(currentKey) == nil {
			return storage.ErrAuthNotFound
		}

		if err := bucket.Delete(currentKey); err != nil {
			return fmt.Errorf("failed to delete auth data: %w", err)
		}

		if profile := tx.Bucket(bucketProfile); profile != nil {
			if err := profile.Delete(currentKey); err != nil {
				return fmt.Errorf("failed to delete profile: %w", err)
			}
		}

		return nil
	})
}

// IsAuthenticated checks if a refreshable session exists
func (s *Storage) IsAuthenticated(ctx context.Context) (bool, error) {
	auth, err := s.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return false, nil
		}
		return false, err
	}

	return !auth.RefreshExpired(time.Now()), nil
}

// SaveProfile caches the last fetched profile
func (s *Storage) SaveProfile(ctx context.Context, user *api.User) error {
	return s.put(bucketProfile, user)
}

// GetProfile returns the cached profile
func (s *Storage) GetProfile(ctx context.Context) (*api.User, error) {
	user := &api.User{}
	if err := s.get(bucketProfile, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Storage) put(bucketName []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s data: %w", bucketName, err)
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return fmt.Errorf("%s bucket not found", bucketName)
		}
		if err := bucket.Put(currentKey, data); err != nil {
			return fmt.Errorf("failed to save %s data: %w", bucketName, err)
		}
		return nil
	})
}

func (s *Storage) get(bucketName []byte, dst any) error {
	return s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return fmt.Errorf("%s bucket not found", bucketName)
		}

		data := bucket.Get(currentKey)
		if data == nil {
			return storage.ErrAuthNotFound
		}

		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("failed to unmarshal %s data: %w", bucketName, err)
		}
		return nil
	})
}

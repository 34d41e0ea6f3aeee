// Package auth issues opaque bearer tokens backed by Redis. Token payloads
// are never parsed by clients; possession of a live key is the session.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/artisan-market/internal/apperr"
	"github.com/ariefcatur/artisan-market/internal/redisx"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Store struct {
	Redis *redis.Client
}

func (s *Store) Issue(ctx context.Context, userID string) (TokenPair, error) {
	pair := TokenPair{Access: uuid.NewString(), Refresh: uuid.NewString()}
	if err := s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyAccessToken, pair.Access), userID, redisx.TTLAccessToken).Err(); err != nil {
		return TokenPair{}, err
	}
	if err := s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyRefreshToken, pair.Refresh), userID, redisx.TTLRefreshToken).Err(); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Authenticate maps an access token to its user id.
func (s *Store) Authenticate(ctx context.Context, access string) (string, error) {
	userID, err := s.Redis.Get(ctx, fmt.Sprintf(redisx.KeyAccessToken, access)).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperr.Wrap(apperr.KindUnauthorized, ErrInvalidToken)
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// Refresh rotates the refresh token and issues a fresh pair. The old
// refresh token is deleted first so it cannot be replayed.
func (s *Store) Refresh(ctx context.Context, refresh string) (TokenPair, error) {
	key := fmt.Sprintf(redisx.KeyRefreshToken, refresh)
	userID, err := s.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return TokenPair{}, apperr.Wrap(apperr.KindUnauthorized, ErrInvalidToken)
	}
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Redis.Del(ctx, key).Err(); err != nil {
		return TokenPair{}, err
	}
	return s.Issue(ctx, userID)
}

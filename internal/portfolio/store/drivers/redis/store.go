// Package redis persists sealed tokens in Redis through rueidis.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/subham12r/portfolio/internal/portfolio/domain"
	"github.com/subham12r/portfolio/internal/portfolio/store"
)

const keyPrefix = "portfolio:token:"

type Store struct {
	client rueidis.Client
	codec  *store.Codec
}

// NewStore wraps an existing client. Close closes it.
func NewStore(client rueidis.Client, codec *store.Codec) *Store {
	return &Store{client: client, codec: codec}
}

// Open connects using a redis:// or rediss:// URL.
func Open(url string, codec *store.Codec) (*Store, error) {
	opts, err := rueidis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	client, err := rueidis.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("redis: connect: %w", err)
	}
	return NewStore(client, codec), nil
}

func (s *Store) Tokens() store.Tokens { return &tokensRepo{s: s} }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

func (s *Store) Close() error {
	s.client.Close()
	return nil
}

type tokensRepo struct {
	s *Store
}

func (r *tokensRepo) GetToken(ctx context.Context, integration string) (domain.TokenState, error) {
	c := r.s.client
	sealed, err := c.Do(ctx, c.B().Get().Key(keyPrefix+integration).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return domain.TokenState{}, store.ErrNotFound
		}
		return domain.TokenState{}, fmt.Errorf("redis: get token: %w", err)
	}
	return r.s.codec.Decode(integration, sealed)
}

// SaveToken stores without a TTL; the refresh token outlives any access
// token expiry.
func (r *tokensRepo) SaveToken(ctx context.Context, integration string, st domain.TokenState) error {
	sealed, err := r.s.codec.Encode(integration, st)
	if err != nil {
		return err
	}

	c := r.s.client
	cmd := c.B().Set().Key(keyPrefix + integration).Value(rueidis.BinaryString(sealed)).Build()
	if err := c.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("redis: save token: %w", err)
	}
	return nil
}

func (r *tokensRepo) DeleteToken(ctx context.Context, integration string) error {
	c := r.s.client
	if err := c.Do(ctx, c.B().Del().Key(keyPrefix+integration).Build()).Error(); err != nil {
		return fmt.Errorf("redis: delete token: %w", err)
	}
	return nil
}

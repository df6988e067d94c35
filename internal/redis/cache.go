package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"travel/internal/domain"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// ListingCacheTTL is short: listings rarely change, but a stale nightly
// price must not survive long past an update.
const ListingCacheTTL = 60 * time.Second

const listingCachePrefix = "cache:listing:"

// cachedListing is the cache representation of a listing.
type cachedListing struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	PricePerNight float64   `json:"price_per_night"`
	CreatedAt     time.Time `json:"created_at"`
}

// GetListing retrieves a listing from cache. Returns nil on a miss.
func (s *CacheStore) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	key := listingCachePrefix + listingID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var cached cachedListing
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return &domain.Listing{
		ID:            cached.ID,
		Title:         cached.Title,
		Description:   cached.Description,
		Location:      cached.Location,
		PricePerNight: cached.PricePerNight,
		CreatedAt:     cached.CreatedAt,
	}, nil
}

// SetListing stores a listing in cache.
func (s *CacheStore) SetListing(ctx context.Context, listing *domain.Listing) error {
	key := listingCachePrefix + listing.ID
	data, err := json.Marshal(cachedListing{
		ID:            listing.ID,
		Title:         listing.Title,
		Description:   listing.Description,
		Location:      listing.Location,
		PricePerNight: listing.PricePerNight,
		CreatedAt:     listing.CreatedAt,
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ListingCacheTTL).Err()
}

// InvalidateListing removes a listing from cache.
func (s *CacheStore) InvalidateListing(ctx context.Context, listingID string) error {
	key := listingCachePrefix + listingID
	return s.client.Del(ctx, key).Err()
}

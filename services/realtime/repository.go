package realtime

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/voyago/travelplanner/internal/pkg/constants"
	"github.com/voyago/travelplanner/internal/pkg/database"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

// locationTTL is how long the last-known location stays queryable after the
// final update of a trip
const locationTTL = 24 * time.Hour

type locationRepo struct {
	redisClient *database.RedisClient
}

// NewLocationRepository creates a Redis-backed cache of the latest location
// per trip
func NewLocationRepository(redisClient *database.RedisClient) LocationCache {
	return &locationRepo{redisClient: redisClient}
}

// StoreLastLocation stores the latest sample for a trip in a Redis hash
func (r *locationRepo) StoreLastLocation(ctx context.Context, tripID string, sample models.LocationSample) error {
	key := fmt.Sprintf(constants.KeyTripLocation, tripID)
	fields := map[string]interface{}{
		constants.FieldLatitude:  strconv.FormatFloat(sample.Latitude, 'f', -1, 64),
		constants.FieldLongitude: strconv.FormatFloat(sample.Longitude, 'f', -1, 64),
		constants.FieldGeohash:   sample.Geohash,
		constants.FieldTimestamp: strconv.FormatInt(sample.Timestamp.Unix(), 10),
	}

	if err := r.redisClient.HMSet(ctx, key, fields); err != nil {
		return fmt.Errorf("failed to store last location: %w", err)
	}

	if err := r.redisClient.Expire(ctx, key, locationTTL); err != nil {
		return fmt.Errorf("failed to set location TTL: %w", err)
	}

	return nil
}

// GetLastLocation retrieves the latest stored sample for a trip
func (r *locationRepo) GetLastLocation(ctx context.Context, tripID string) (*models.LocationSample, error) {
	key := fmt.Sprintf(constants.KeyTripLocation, tripID)

	values, err := r.redisClient.HMGet(ctx, key,
		constants.FieldLatitude,
		constants.FieldLongitude,
		constants.FieldGeohash,
		constants.FieldTimestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get location data: %w", err)
	}

	if len(values) != 4 || values[0] == "" {
		return nil, fmt.Errorf("no location data found for trip %s", tripID)
	}

	lat, err := strconv.ParseFloat(values[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude: %w", err)
	}

	lng, err := strconv.ParseFloat(values[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude: %w", err)
	}

	ts, err := strconv.ParseInt(values[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %w", err)
	}

	return &models.LocationSample{
		Latitude:  lat,
		Longitude: lng,
		Geohash:   values[2],
		Timestamp: time.Unix(ts, 0),
	}, nil
}

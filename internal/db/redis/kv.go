package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/catalogd/internal/db"
)

// Get returns the value at key or db.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.do(ctx, s.b().Get().Key(key).Build()).AsBytes()
	if rueidis.IsRedisNil(err) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// SetWithTTL stores value at key. A non-positive ttl stores it without expiry.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var cmd rueidis.Completed
	if ttl > 0 {
		cmd = s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build()
	} else {
		cmd = s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Build()
	}
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// IncrWindow pipelines INCR, EXPIRE NX and TTL. The expiry is set by the
// first hit only, so repeat hits never extend the window.
func (s *Store) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	res := s.client.DoMulti(ctx,
		s.b().Incr().Key(key).Build(),
		s.b().Expire().Key(key).Seconds(int64(window/time.Second)).Nx().Build(),
		s.b().Ttl().Key(key).Build(),
	)

	n, err := res[0].AsInt64()
	if err != nil {
		return 0, 0, &db.Error{Op: db.OpIncr, Err: err}
	}
	if err := res[1].Error(); err != nil {
		return 0, 0, &db.Error{Op: db.OpExpire, Err: err}
	}
	secs, err := res[2].AsInt64()
	if err != nil {
		return 0, 0, &db.Error{Op: db.OpTTL, Err: err}
	}
	return n, ttlFromSeconds(secs, window), nil
}

// TTL returns the remaining lifetime of key. A missing key returns
// db.ErrKeyNotFound and a key without expiry returns zero.
func (s *Store) TTL(ctx context.Context, key string) (time.Duration, error) {
	secs, err := s.do(ctx, s.b().Ttl().Key(key).Build()).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpTTL, Err: err}
	}
	if secs == -2 {
		return 0, db.ErrKeyNotFound
	}
	return ttlFromSeconds(secs, 0), nil
}

// ttlFromSeconds maps the TTL reply to a duration, using fallback for the
// negative "no expiry" and "missing" replies.
func ttlFromSeconds(secs int64, fallback time.Duration) time.Duration {
	if secs < 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

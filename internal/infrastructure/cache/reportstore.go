package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"paychain/internal/domain/report"
)

const reportKeyPrefix = "report:"

// RedisReportStore persists payment reports keyed by transaction reference.
// Writes use SET NX so the first report stored for a reference wins;
// concurrent processors observe the stored copy instead of overwriting it.
// Entries carry no TTL.
type RedisReportStore struct {
	rdb *redis.Client
}

func NewRedisReportStore(rdb *redis.Client) *RedisReportStore {
	return &RedisReportStore{rdb: rdb}
}

func (s *RedisReportStore) Get(ctx context.Context, txnRef string) (*report.Report, error) {
	raw, err := s.rdb.Get(ctx, reportKeyPrefix+txnRef).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, report.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var r report.Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RedisReportStore) Put(ctx context.Context, r *report.Report) (*report.Report, bool, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, false, err
	}
	set, err := s.rdb.SetNX(ctx, reportKeyPrefix+r.TransactionReference, raw, 0).Result()
	if err != nil {
		return nil, false, err
	}
	if set {
		return r, false, nil
	}
	stored, err := s.Get(ctx, r.TransactionReference)
	if err != nil {
		return nil, false, err
	}
	return stored, true, nil
}

func (s *RedisReportStore) Keys(ctx context.Context) ([]string, error) {
	var (
		refs   []string
		cursor uint64
	)
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, reportKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			refs = append(refs, k[len(reportKeyPrefix):])
		}
		if next == 0 {
			return refs, nil
		}
		cursor = next
	}
}

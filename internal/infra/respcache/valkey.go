package respcache

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/uptime-status/internal/domain/monitor"
)

// ValkeyStore shares cached responses between replicas through a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "uptime-status"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Get implements monitor.Cache. Expiry is enforced server side.
func (s *ValkeyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.entryKey(key)).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

// Set implements monitor.Cache. EX has second granularity, so the TTL is rounded up
// to the next whole second and never below one.
func (s *ValkeyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.client.B().Set().Key(s.entryKey(key)).Value(valkey.BinaryString(value)).ExSeconds(expirySeconds(ttl)).Build()
	return s.client.Do(ctx, cmd).Error()
}

// Delete removes key if present.
func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.entryKey(key)).Build()).Error()
}

func expirySeconds(ttl time.Duration) int64 {
	secs := int64((ttl + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

func (s *ValkeyStore) entryKey(key string) string {
	return s.prefix + ":cache:" + key
}

var _ monitor.Cache = (*ValkeyStore)(nil)

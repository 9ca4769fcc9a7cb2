// Package mirror copies the latest heart-rate sample into Redis so other
// processes can read it. Only the current value is kept, with a TTL.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/garrettladley/hrcounter/internal/hr"
	"github.com/garrettladley/hrcounter/internal/ingest"
	"github.com/garrettladley/hrcounter/internal/source"
)

const (
	DefaultKey = "hrcounter:bpm"
	DefaultTTL = 10 * time.Second
)

var _ ingest.Publisher = (*Mirror)(nil)

// Record is the JSON stored under the mirror key.
type Record struct {
	BPM        int       `json:"bpm"`
	ReceivedAt time.Time `json:"received_at"`
	Source     string    `json:"source"`
}

type Mirror struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

func New(client redis.Cmdable, key string, ttl time.Duration) *Mirror {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Mirror{client: client, key: key, ttl: ttl}
}

// Publish stores the sample and announces its BPM on the channel named by
// the key.
func (m *Mirror) Publish(ctx context.Context, kind source.Kind, sample hr.Sample) error {
	data, err := go_json.Marshal(Record{
		BPM:        sample.BPM,
		ReceivedAt: sample.ReceivedAt.UTC(),
		Source:     string(kind),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}

	pipe := m.client.Pipeline()
	pipe.Set(ctx, m.key, data, m.ttl)
	pipe.Publish(ctx, m.key, strconv.Itoa(sample.BPM))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to mirror sample: %w", err)
	}
	return nil
}

// Latest reads the mirrored record back. ok is false when it expired or was
// never written.
func (m *Mirror) Latest(ctx context.Context) (Record, bool, error) {
	data, err := m.client.Get(ctx, m.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to read mirrored sample: %w", err)
	}

	var rec Record
	if err := go_json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("failed to unmarshal mirrored sample: %w", err)
	}
	return rec, true, nil
}

package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// nextSequenceScript raises the counter to floor if it has fallen behind,
// then increments and returns it. Running as a script makes the
// raise-and-increment atomic, so a manually posted number above the counter
// can never cause the allocator to re-suggest a taken sequence.
var nextSequenceScript = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local floor = tonumber(ARGV[1])
if floor > cur then
	cur = floor
end
cur = cur + 1
redis.call('SET', KEYS[1], cur)
return cur
`)

// SequenceAllocator hands out invoice sequence numbers using a per-year
// Redis counter.
// Key format: invoice_seq:<financial_year>
type SequenceAllocator struct {
	client *redis.Client
}

// NewSequenceAllocator creates a SequenceAllocator wrapping the given Redis
// client.
func NewSequenceAllocator(client *redis.Client) *SequenceAllocator {
	return &SequenceAllocator{client: client}
}

// Next returns the next sequence for a financial year. floor is the highest
// sequence already in storage; the counter is clamped to at least floor
// before incrementing, so allocations stay ahead of manually chosen numbers.
func (a *SequenceAllocator) Next(ctx context.Context, year string, floor int64) (int64, error) {
	seq, err := nextSequenceScript.Run(ctx, a.client, []string{a.key(year)}, floor).Int64()
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

func (a *SequenceAllocator) key(year string) string {
	return fmt.Sprintf("invoice_seq:%s", year)
}

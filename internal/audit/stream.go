package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/banco/internal/account"
	"github.com/congo-pay/banco/internal/ledger"
)

// DefaultStream is the Redis stream key used when none is configured.
const DefaultStream = "banco:audit:v1"

const publishTimeout = 2 * time.Second

// StreamHook appends audit events to a Redis stream.
type StreamHook struct {
	cache  *redis.Client
	stream string
	maxLen int64
}

// NewStreamHook builds a hook publishing to stream, trimmed approximately to
// maxLen entries when maxLen is positive.
func NewStreamHook(cache *redis.Client, stream string, maxLen int64) *StreamHook {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamHook{cache: cache, stream: stream, maxLen: maxLen}
}

func (h *StreamHook) OnAccountOpened(ctx context.Context, acct *account.Account) error {
	return h.publish(ctx, AccountOpened(acct))
}

func (h *StreamHook) OnTransactionCommitted(ctx context.Context, tx ledger.Transaction, acct *account.Account) error {
	return h.publish(ctx, TransactionCommitted(tx, acct))
}

func (h *StreamHook) publish(ctx context.Context, e Event) error {
	if h == nil || h.cache == nil {
		return nil
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	args := &redis.XAddArgs{
		Stream: h.stream,
		Values: map[string]any{"type": e.Type, "payload": string(payload)},
	}
	if h.maxLen > 0 {
		args.MaxLen = h.maxLen
		args.Approx = true
	}
	if err := h.cache.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

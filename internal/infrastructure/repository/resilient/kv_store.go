package resilient

import (
	"context"

	"github.com/riskibarqy/match-scoreboard/internal/domain/kvstore"
	"github.com/riskibarqy/match-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/match-scoreboard/internal/platform/resilience"
)

// KVStore fails fast with resilience.ErrCircuitOpen once the wrapped store
// keeps erroring, instead of hitting it on every tick.
type KVStore struct {
	next    kvstore.Store
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewKVStore(next kvstore.Store, breaker *resilience.CircuitBreaker, logger *logging.Logger) *KVStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &KVStore{next: next, breaker: breaker, logger: logger.Named("state_store")}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value  string
		exists bool
	)
	err := s.execute(ctx, "get", func() error {
		var err error
		value, exists, err = s.next.Get(ctx, key)
		return err
	})
	return value, exists, err
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	return s.execute(ctx, "set", func() error {
		return s.next.Set(ctx, key, value)
	})
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	return s.execute(ctx, "delete", func() error {
		return s.next.Delete(ctx, key)
	})
}

func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.execute(ctx, "keys", func() error {
		var err error
		keys, err = s.next.Keys(ctx)
		return err
	})
	return keys, err
}

// execute leaves the breaker untouched when the caller has already given up;
// a canceled request says nothing about the store's health.
func (s *KVStore) execute(ctx context.Context, op string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	before := s.breaker.State()
	err := s.breaker.Execute(fn)
	if after := s.breaker.State(); after != before {
		s.logger.WarnContext(ctx, "state store circuit changed",
			"operation", op,
			"from", string(before),
			"to", string(after),
		)
	}
	return err
}

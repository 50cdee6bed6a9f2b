package events

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockClearer struct {
	m      sync.Mutex
	carts   []string
	trials  []string
	evicted []string
}

func (c *mockClearer) ClearCart(_ context.Context, sessionID string) {
	c.m.Lock()
	defer c.m.Unlock()
	c.carts = append(c.carts, sessionID)
}

func (c *mockClearer) ClearTrial(_ context.Context, sessionID string) {
	c.m.Lock()
	defer c.m.Unlock()
	c.trials = append(c.trials, sessionID)
}

func (c *mockClearer) Evict(sessionID string) {
	c.m.Lock()
	defer c.m.Unlock()
	c.evicted = append(c.evicted, sessionID)
}

func (c *mockClearer) snapshot() ([]string, []string, []string) {
	c.m.Lock()
	defer c.m.Unlock()
	return append([]string(nil), c.carts...), append([]string(nil), c.trials...), append([]string(nil), c.evicted...)
}

func TestCheckoutConsumer_Handle(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		wantCarts   []string
		wantTrials  []string
		wantEvicted []string
	}{
		{"cart flow", `{"session_id":"7","flow":"cart"}`, []string{"7"}, nil, []string{"7"}},
		{"home trial flow", `{"session_id":"7","flow":"home_trial"}`, nil, []string{"7"}, nil},
		{"all", `{"session_id":"7","flow":"all"}`, []string{"7"}, []string{"7"}, []string{"7"}},
		{"no flow means all", `{"session_id":"7"}`, []string{"7"}, []string{"7"}, []string{"7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearer := &mockClearer{}
			c := &CheckoutConsumer{clearer: clearer, log: zaptest.NewLogger(t)}

			require.NoError(t, c.Handle(context.Background(), []byte(tt.payload)))

			carts, trials, evicted := clearer.snapshot()
			assert.Equal(t, tt.wantCarts, carts)
			assert.Equal(t, tt.wantTrials, trials)
			assert.Equal(t, tt.wantEvicted, evicted)
		})
	}
}

func TestCheckoutConsumer_Handle_Rejects(t *testing.T) {
	clearer := &mockClearer{}
	c := &CheckoutConsumer{clearer: clearer, log: zaptest.NewLogger(t)}
	ctx := context.Background()

	require.ErrorContains(t, c.Handle(ctx, []byte(`{"session_id":`)), "error parsing message")
	require.ErrorContains(t, c.Handle(ctx, []byte(`{"flow":"cart"}`)), "missing session_id")
	require.ErrorContains(t, c.Handle(ctx, []byte(`{"session_id":"1","flow":"refund"}`)), "unknown flow")

	carts, trials, evicted := clearer.snapshot()
	assert.Empty(t, carts)
	assert.Empty(t, trials)
	assert.Empty(t, evicted)
}

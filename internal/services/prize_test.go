package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "$45.00", Units(45).String())
	assert.Equal(t, "$0.50", Money(50).String())
	assert.Equal(t, "-$1.05", Money(-105).String())
}

func TestPayouts(t *testing.T) {
	share := Units(90)
	assert.Equal(t, []Money{Units(45), Units(27), Units(18)}, Payouts(share, 3))
	assert.Equal(t, []Money{Units(45)}, Payouts(share, 1))
	assert.Len(t, Payouts(share, 5), 3)
	assert.Empty(t, Payouts(share, 0))
}

func TestPrizePool(t *testing.T) {
	store := newTestStore(t)
	prize := NewPrizeService(store)
	ctx := context.Background()

	assert.Equal(t, Money(0), prize.PrizePool(ctx))

	for i := 0; i < 4; i++ {
		mustUser(t, store, fmt.Sprintf("sub%d", i), true)
	}
	mustUser(t, store, "free", false)

	pool, err := prize.Pool(ctx)
	require.NoError(t, err)
	assert.Equal(t, Units(12), pool)
	assert.Equal(t, Units(8), WinnersShare(pool))
}

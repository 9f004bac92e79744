package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefreshReplacesCount(t *testing.T) {
	c := NewCounter(func(ctx context.Context) (int, error) { return 7, nil })
	c.Refresh(context.Background())
	assert.Equal(t, 7, c.Value())
}

func TestRefreshFailureKeepsCachedValue(t *testing.T) {
	calls := 0
	c := NewCounter(func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 3, nil
		}
		return 0, errors.New("backend down")
	})

	ctx := context.Background()
	c.Refresh(ctx)
	c.Refresh(ctx)
	assert.Equal(t, 3, c.Value(), "a failed fetch must not clobber the cache")
}

func TestDecrementClampsAtZero(t *testing.T) {
	c := NewCounter(func(ctx context.Context) (int, error) { return 2, nil })
	c.Refresh(context.Background())

	c.Decrement(1)
	assert.Equal(t, 1, c.Value())

	c.Decrement(5)
	assert.Equal(t, 0, c.Value(), "count never goes negative")

	c.Decrement(1)
	assert.Equal(t, 0, c.Value())
}

func TestDecrementIgnoresNonPositive(t *testing.T) {
	c := NewCounter(func(ctx context.Context) (int, error) { return 4, nil })
	c.Refresh(context.Background())

	c.Decrement(0)
	c.Decrement(-3)
	assert.Equal(t, 4, c.Value())
}

func TestReset(t *testing.T) {
	c := NewCounter(func(ctx context.Context) (int, error) { return 9, nil })
	c.Refresh(context.Background())
	c.Reset()
	assert.Equal(t, 0, c.Value())
}

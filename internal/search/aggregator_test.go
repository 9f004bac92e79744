package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/shopctl/internal/models"
)

func productsNamed(names ...string) func(ctx context.Context, query string, limit int) ([]models.Product, error) {
	return func(ctx context.Context, query string, limit int) ([]models.Product, error) {
		out := make([]models.Product, 0, len(names))
		for _, n := range names {
			out = append(out, models.Product{ID: n, Name: n})
		}
		return out, nil
	}
}

func TestDebounceDispatchesOnlyLastQuery(t *testing.T) {
	var dispatched atomic.Int32
	queries := make(chan string, 16)

	sources := Sources{
		Products: func(ctx context.Context, query string, limit int) ([]models.Product, error) {
			dispatched.Add(1)
			queries <- query
			return []models.Product{{ID: "p1", Name: query}}, nil
		},
	}

	updates := make(chan Results, 16)
	agg := New(sources,
		WithDebounce(30*time.Millisecond),
		WithUpdateFunc(func(r Results) { updates <- r }),
	)

	ctx := context.Background()
	for _, q := range []string{"l", "li", "lin", "line", "linen"} {
		agg.Query(ctx, q)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case res := <-updates:
		require.Len(t, res.Products, 1)
		assert.Equal(t, "linen", res.Products[0].Name)
	case <-time.After(time.Second):
		t.Fatal("no update arrived")
	}

	// Let any stragglers land, then confirm there was exactly one.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), dispatched.Load(), "intermediate keystrokes must be absorbed")
	assert.Equal(t, "linen", <-queries)
}

func TestEmptyQueryClearsWithoutLookup(t *testing.T) {
	var dispatched atomic.Int32
	sources := Sources{
		Products: func(ctx context.Context, query string, limit int) ([]models.Product, error) {
			dispatched.Add(1)
			return []models.Product{{ID: "p1"}}, nil
		},
	}

	updates := make(chan Results, 16)
	agg := New(sources,
		WithDebounce(10*time.Millisecond),
		WithUpdateFunc(func(r Results) { updates <- r }),
	)

	ctx := context.Background()
	agg.Query(ctx, "mug")
	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("no update for the initial query")
	}

	agg.Query(ctx, "   ")
	select {
	case res := <-updates:
		assert.True(t, res.Empty(), "clearing the input must publish the empty set")
	case <-time.After(time.Second):
		t.Fatal("no update after clearing")
	}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), dispatched.Load(), "a blank query must not hit any source")
	assert.True(t, agg.Results().Empty())
}

func TestLookupToleratesPartialFailure(t *testing.T) {
	sources := Sources{
		Products: productsNamed("Linen Shirt"),
		Orders: func(ctx context.Context, query string, limit int) ([]models.Order, error) {
			return nil, errors.New("orders backend down")
		},
		Customers: func(ctx context.Context, query string, limit int) ([]models.Customer, error) {
			return []models.Customer{{ID: "c1", Name: "Lina"}}, nil
		},
	}

	agg := New(sources)
	res := agg.Lookup(context.Background(), "lin")

	assert.Len(t, res.Products, 1)
	assert.Empty(t, res.Orders, "a failed source contributes an empty section")
	assert.Len(t, res.Customers, 1)
	assert.False(t, res.Empty())
}

func TestLookupCapsResultsPerResource(t *testing.T) {
	sources := Sources{
		// Misbehaving source ignores the limit argument.
		Products: productsNamed("a", "b", "c", "d", "e", "f"),
	}

	agg := New(sources, WithLimit(4))
	res := agg.Lookup(context.Background(), "x")
	assert.Len(t, res.Products, 4)
}

func TestStaleResponseNeverOverwritesNewer(t *testing.T) {
	release := make(chan struct{})

	sources := Sources{
		Products: func(ctx context.Context, query string, limit int) ([]models.Product, error) {
			if query == "slow" {
				<-release
			}
			return []models.Product{{ID: query, Name: query}}, nil
		},
	}

	updates := make(chan Results, 16)
	agg := New(sources,
		WithDebounce(5*time.Millisecond),
		WithUpdateFunc(func(r Results) { updates <- r }),
	)

	ctx := context.Background()
	agg.Query(ctx, "slow")
	time.Sleep(30 * time.Millisecond) // let "slow" dispatch and block

	agg.Query(ctx, "fast")
	select {
	case res := <-updates:
		require.Len(t, res.Products, 1)
		assert.Equal(t, "fast", res.Products[0].Name)
	case <-time.After(time.Second):
		t.Fatal("no update for the newer query")
	}

	close(release)
	time.Sleep(50 * time.Millisecond)

	res := agg.Results()
	require.Len(t, res.Products, 1)
	assert.Equal(t, "fast", res.Products[0].Name, "the abandoned query's late result must be dropped")

	select {
	case res := <-updates:
		t.Fatalf("unexpected extra update: %+v", res)
	default:
	}
}

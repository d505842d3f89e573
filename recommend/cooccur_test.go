package recommend

import (
	"context"
	"testing"

	"github.com/rushteam/searchkit/core"
	"github.com/rushteam/searchkit/index"
	"github.com/rushteam/searchkit/store"
)

func cooccurFixture(t *testing.T) *CoOccurrence {
	t.Helper()
	idx, err := index.Build([]*core.Product{
		{ID: "P010", Title: "a", Popularity: 50},
		{ID: "P011", Title: "b", Popularity: 90},
		{ID: "P012", Title: "c", Popularity: 70},
		{ID: "P013", Title: "d", Popularity: 95},
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewCoOccurrence(idx)
}

func TestCoOccurrence_Recommend(t *testing.T) {
	c := cooccurFixture(t)
	c.Rebuild([]core.InteractionEvent{
		// u1 and u2 both touched P010+P011, u2 also P012
		{UserID: "u1", ProductID: "P010", Type: core.EventPurchase},
		{UserID: "u1", ProductID: "P011", Type: core.EventClick},
		{UserID: "u2", ProductID: "P010", Type: core.EventClick},
		{UserID: "u2", ProductID: "P011", Type: core.EventCart},
		{UserID: "u2", ProductID: "P012", Type: core.EventClick},
		// u3 only touched P010
		{UserID: "u3", ProductID: "P010", Type: core.EventPurchase},
	})

	recs := c.Recommend(context.Background(), "u3", 3)
	if len(recs) == 0 {
		t.Fatal("Recommend(u3) returned nothing")
	}
	// P011 co-occurs with P010 twice, P012 once
	if recs[0].ProductID != "P011" {
		t.Fatalf("top recommendation = %s, want P011", recs[0].ProductID)
	}
	for _, r := range recs {
		if r.ProductID == "P010" {
			t.Fatal("Recommend() must exclude items the user already interacted with")
		}
		if r.Reason != ReasonCoOccurrence {
			t.Fatalf("reason = %s, want %s", r.Reason, ReasonCoOccurrence)
		}
		if r.Score < 0 || r.Score > 1 {
			t.Fatalf("score %v out of [0,1]", r.Score)
		}
	}
}

func TestCoOccurrence_ViewsIgnored(t *testing.T) {
	c := cooccurFixture(t)
	c.Rebuild([]core.InteractionEvent{
		{UserID: "u1", ProductID: "P010", Type: core.EventView},
		{UserID: "u1", ProductID: "P011", Type: core.EventView},
	})
	if items := c.UserItems("u1"); len(items) != 0 {
		t.Fatalf("views must not enter co-occurrence, got %v", items)
	}
}

func TestCoOccurrence_ColdUserFallback(t *testing.T) {
	c := cooccurFixture(t)
	c.Rebuild(nil)

	recs := c.Recommend(context.Background(), "stranger", 2)
	if len(recs) != 2 {
		t.Fatalf("fallback returned %d, want 2", len(recs))
	}
	// popularity order: P013 (95) then P011 (90)
	if recs[0].ProductID != "P013" || recs[1].ProductID != "P011" {
		t.Fatalf("fallback order = [%s %s], want [P013 P011]", recs[0].ProductID, recs[1].ProductID)
	}
	for _, r := range recs {
		if r.Reason != ReasonPopularityFallback {
			t.Fatalf("reason = %s, want %s", r.Reason, ReasonPopularityFallback)
		}
	}
}

func TestCoOccurrence_StoreBackedHotFallback(t *testing.T) {
	c := cooccurFixture(t)
	c.Store = store.NewMemoryStore()
	defer c.Store.Close()
	ctx := context.Background()

	events := []core.InteractionEvent{
		{UserID: "u1", ProductID: "P010", Type: core.EventPurchase}, // weight 10
		{UserID: "u2", ProductID: "P012", Type: core.EventClick},    // weight 3
		{UserID: "u2", ProductID: "P012", Type: core.EventClick},    // accumulates to 6
	}
	c.Rebuild(events)
	if err := c.SyncHot(ctx, events); err != nil {
		t.Fatal(err)
	}

	// event-weighted hot list beats static popularity (P013 has no events)
	recs := c.Recommend(ctx, "stranger", 2)
	if len(recs) != 2 || recs[0].ProductID != "P010" || recs[1].ProductID != "P012" {
		t.Fatalf("hot fallback = %+v, want [P010 P012]", recs)
	}
	if recs[0].Score != 1 || recs[1].Score != 0.6 {
		t.Fatalf("normalized scores = [%v %v], want [1 0.6]", recs[0].Score, recs[1].Score)
	}
	for _, r := range recs {
		if r.Reason != ReasonPopularityFallback {
			t.Fatalf("reason = %s, want %s", r.Reason, ReasonPopularityFallback)
		}
	}
}

func TestDedupOrdered(t *testing.T) {
	got := dedupOrdered([]string{"a", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("dedupOrdered = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dedupOrdered = %v, want %v", got, want)
		}
	}
}

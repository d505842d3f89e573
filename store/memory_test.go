package store

import (
	"context"
	"testing"

	"github.com/rushteam/searchkit/core"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if _, err := ms.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Fatalf("Get(missing) error = %v, want store NOT_FOUND", err)
	}
	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get(k) = %q, %v", got, err)
	}
	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := ms.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Fatalf("Get(deleted) error = %v, want store NOT_FOUND", err)
	}
}

func TestMemoryStore_BatchOps(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.BatchSet(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}); err != nil {
		t.Fatal(err)
	}
	got, err := ms.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Fatalf("BatchGet = %v", got)
	}
}

func TestMemoryStore_ZSet(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	ms.ZAdd(ctx, "hot", 90, "P002")
	ms.ZAdd(ctx, "hot", 95, "P001")
	ms.ZAdd(ctx, "hot", 90, "P003")

	// score desc, ties by member asc
	got, err := ms.ZRange(ctx, "hot", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"P001", "P002", "P003"}
	if len(got) != len(want) {
		t.Fatalf("ZRange = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ZRange = %v, want %v", got, want)
		}
	}

	score, err := ms.ZScore(ctx, "hot", "P001")
	if err != nil || score != 95 {
		t.Fatalf("ZScore = %v, %v", score, err)
	}
	if _, err := ms.ZScore(ctx, "hot", "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("ZScore(missing) error = %v, want store NOT_FOUND", err)
	}
}

func TestMemoryStore_HashAndList(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.HSet(ctx, "h", "f1", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	v, err := ms.HGet(ctx, "h", "f1")
	if err != nil || string(v) != "v1" {
		t.Fatalf("HGet = %q, %v", v, err)
	}
	if _, err := ms.HGet(ctx, "h", "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("HGet(missing) error = %v, want store NOT_FOUND", err)
	}

	// list keeps append order
	if err := ms.RPush(ctx, "log", []byte("e1"), []byte("e2")); err != nil {
		t.Fatal(err)
	}
	if err := ms.RPush(ctx, "log", []byte("e3")); err != nil {
		t.Fatal(err)
	}
	items, err := ms.LRange(ctx, "log", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 || string(items[0]) != "e1" || string(items[2]) != "e3" {
		t.Fatalf("LRange = %v", items)
	}
}

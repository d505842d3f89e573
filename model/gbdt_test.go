package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// 两棵小树：
//	tree0: bm25 <= 1.0 → 0.2，否则 0.8
//	tree1: 常数叶子 0.1
func gbdtFixture() *GBDTModel {
	return &GBDTModel{Trees: []Tree{
		{Nodes: []TreeNode{
			{Feature: "bm25_score", Threshold: 1.0, Left: 1, Right: 2},
			{Leaf: true, Value: 0.2},
			{Leaf: true, Value: 0.8},
		}},
		{Nodes: []TreeNode{
			{Leaf: true, Value: 0.1},
		}},
	}}
}

func TestGBDTModel_Predict(t *testing.T) {
	m := gbdtFixture()
	tests := []struct {
		name     string
		features map[string]float64
		want     float64
	}{
		{"low bm25 goes left", map[string]float64{"bm25_score": 0.5}, 0.3},
		{"high bm25 goes right", map[string]float64{"bm25_score": 2.0}, 0.9},
		{"missing feature treated as zero", map[string]float64{}, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Predict(tt.features)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("Predict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGBDTModel_BadTree(t *testing.T) {
	// child index out of range
	m := &GBDTModel{Trees: []Tree{
		{Nodes: []TreeNode{{Feature: "x", Threshold: 0, Left: 5, Right: 5}}},
	}}
	if _, err := m.Predict(map[string]float64{"x": 1}); err == nil {
		t.Fatal("Predict() must fail on out-of-range child")
	}

	// self-loop must not spin forever
	m = &GBDTModel{Trees: []Tree{
		{Nodes: []TreeNode{{Feature: "x", Threshold: 0, Left: 0, Right: 0}}},
	}}
	if _, err := m.Predict(map[string]float64{"x": 1}); err == nil {
		t.Fatal("Predict() must detect cycles")
	}
}

func TestLoadGBDTModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gbdt.json")
	data, err := json.Marshal(gbdtFixture())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadGBDTModel(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Trees) != 2 {
		t.Fatalf("loaded %d trees, want 2", len(m.Trees))
	}

	// empty model is rejected
	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"trees":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGBDTModel(empty); err == nil {
		t.Fatal("LoadGBDTModel must reject model without trees")
	}
}

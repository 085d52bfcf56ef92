package store

import (
	"context"
	"testing"

	"github.com/rushteam/matchkit/core"
)

func TestMemoryStoreGetSet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.Set(ctx, "catalog:p1", []byte(`{"id":"p1"}`), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := s.Get(ctx, "catalog:p1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"id":"p1"}` {
		t.Errorf("Get() = %s, want stored document", got)
	}

	if _, err := s.Get(ctx, "catalog:missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(missing) error = %v, want store not found", err)
	}

	if err := s.Delete(ctx, "catalog:p1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "catalog:p1"); !core.IsStoreNotFound(err) {
		t.Errorf("Get() after delete error = %v, want store not found", err)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	kvs := map[string][]byte{
		"feature:p1": []byte(`{"popularity":0.8}`),
		"feature:p2": []byte(`{"popularity":0.3}`),
	}
	if err := s.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("BatchSet() error = %v", err)
	}

	got, err := s.BatchGet(ctx, []string{"feature:p1", "feature:p2", "feature:p3"})
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("BatchGet() returned %d entries, want 2 (missing key skipped)", len(got))
	}
	if string(got["feature:p1"]) != `{"popularity":0.8}` {
		t.Errorf("feature:p1 = %s, want stored value", got["feature:p1"])
	}
}

func TestMemoryStoreSortedSet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	// 畅销榜：按销量分数降序
	for member, score := range map[string]float64{
		"p-low": 10, "p-top": 99, "p-mid": 50,
	} {
		if err := s.ZAdd(ctx, "bestsellers", score, member); err != nil {
			t.Fatalf("ZAdd() error = %v", err)
		}
	}

	got, err := s.ZRange(ctx, "bestsellers", 0, 1)
	if err != nil {
		t.Fatalf("ZRange() error = %v", err)
	}
	if len(got) != 2 || got[0] != "p-top" || got[1] != "p-mid" {
		t.Errorf("ZRange(0,1) = %v, want [p-top p-mid]", got)
	}

	score, err := s.ZScore(ctx, "bestsellers", "p-top")
	if err != nil {
		t.Fatalf("ZScore() error = %v", err)
	}
	if score != 99 {
		t.Errorf("ZScore(p-top) = %v, want 99", score)
	}

	if _, err := s.ZScore(ctx, "bestsellers", "ghost"); !core.IsStoreNotFound(err) {
		t.Errorf("ZScore(ghost) error = %v, want store not found", err)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.HSet(ctx, "attrs:p1", "texture", []byte("wavy")); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}
	if err := s.HSet(ctx, "attrs:p1", "length", []byte("long")); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}

	got, err := s.HGet(ctx, "attrs:p1", "texture")
	if err != nil {
		t.Fatalf("HGet() error = %v", err)
	}
	if string(got) != "wavy" {
		t.Errorf("HGet() = %s, want wavy", got)
	}

	all, err := s.HGetAll(ctx, "attrs:p1")
	if err != nil {
		t.Fatalf("HGetAll() error = %v", err)
	}
	if len(all) != 2 || string(all["length"]) != "long" {
		t.Errorf("HGetAll() = %v, want texture+length fields", all)
	}
}

func TestMemoryVectorSearchEuclidean(t *testing.T) {
	svc := NewMemoryVectorService()
	defer svc.Close()
	ctx := context.Background()

	if err := svc.CreateCollection(ctx, &core.VectorCreateCollectionRequest{
		Name:      "product_colors",
		Dimension: 3,
		Metric:    "euclidean",
	}); err != nil {
		t.Fatalf("CreateCollection() error = %v", err)
	}

	// Lab 色值：浅金、深棕、乌黑
	if err := svc.Insert(ctx, &core.VectorInsertRequest{
		Collection: "product_colors",
		IDs:        []string{"p-blonde", "p-brown", "p-black"},
		Vectors: [][]float64{
			{85, 2, 18},
			{35, 10, 22},
			{8, 1, 2},
		},
	}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	// 目标色接近浅金
	res, err := svc.Search(ctx, &core.VectorSearchRequest{
		Collection: "product_colors",
		Vector:     []float64{82, 3, 16},
		TopK:       2,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(res.Items))
	}
	if res.Items[0].ID != "p-blonde" {
		t.Errorf("Items[0].ID = %q, want p-blonde (nearest color)", res.Items[0].ID)
	}
}

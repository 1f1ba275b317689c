// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package idpool

import "testing"

func TestAppendDenseIDs(t *testing.T) {
	var p Pool[string]
	a := p.Append("a")
	b := p.Append("b")
	if a != 0 || b != 1 {
		t.Fatalf("ids = %d, %d, want 0, 1", a, b)
	}
	if p.Len() != 2 {
		t.Fatalf("Len = %d, want 2", p.Len())
	}
}

func TestAppendPoolAndOffset(t *testing.T) {
	var p Pool[int]
	base := p.AppendPool([]int{10, 20, 30})
	if base != 0 {
		t.Fatalf("base = %d, want 0", base)
	}
	v, ok := p.AtOffset(base, 1)
	if !ok || v != 20 {
		t.Fatalf("AtOffset(base,1) = %d,%v, want 20,true", v, ok)
	}
}

func TestReleaseReverseOrder(t *testing.T) {
	var p Pool[int]
	p.Append(1)
	p.Append(2)
	p.Append(3)
	var order []int
	p.ReleaseReverse(func(h int) { order = append(order, h) })
	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if p.Len() != 0 {
		t.Fatalf("pool not empty after release: Len = %d", p.Len())
	}
}

func TestAtOutOfRange(t *testing.T) {
	var p Pool[int]
	p.Append(42)
	if _, ok := p.At(5); ok {
		t.Fatal("expected ok=false for out-of-range id")
	}
	if _, ok := p.At(-1); ok {
		t.Fatal("expected ok=false for negative id")
	}
}

package kv

import (
	"bytes"
	"errors"
	"testing"
)

func TestMemoryStoreBasic(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Put([]byte("key1"), []byte("val1")); err != nil {
		t.Fatal(err)
	}
	val, err := s.Get([]byte("key1"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(val, []byte("val1")) {
		t.Errorf("Get = %s, want val1", val)
	}

	ok, err := s.Has([]byte("key1"))
	if err != nil || !ok {
		t.Errorf("Has(key1) = %v, %v, want true, nil", ok, err)
	}
	ok, err = s.Has([]byte("missing"))
	if err != nil || ok {
		t.Errorf("Has(missing) = %v, %v, want false, nil", ok, err)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get([]byte("nope")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDataIsolation(t *testing.T) {
	s := NewMemoryStore()
	original := []byte("original")
	s.Put([]byte("key"), original)
	original[0] = 0xff

	val, _ := s.Get([]byte("key"))
	if val[0] == 0xff {
		t.Error("store should copy data on Put, not alias the caller's slice")
	}
	val[0] = 0xee
	val2, _ := s.Get([]byte("key"))
	if val2[0] == 0xee {
		t.Error("Get should return a copy, not a reference to stored data")
	}
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore()
	s.Put([]byte("ns/a"), []byte("1"))
	s.Put([]byte("ns/b"), []byte("2"))
	s.Put([]byte("other/c"), []byte("3"))

	if err := s.Clear([]byte("ns/")); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Has([]byte("ns/a")); ok {
		t.Error("ns/a should have been cleared")
	}
	if ok, _ := s.Has([]byte("other/c")); !ok {
		t.Error("other/c should survive a Clear scoped to ns/")
	}
}

func TestMemoryStoreIterator(t *testing.T) {
	s := NewMemoryStore()
	s.Put([]byte("a1"), []byte("1"))
	s.Put([]byte("a2"), []byte("2"))
	s.Put([]byte("a3"), []byte("3"))
	s.Put([]byte("b1"), []byte("4"))

	it := s.Iterator([]byte("a"), nil)
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	if err := it.Err(); err != nil {
		t.Fatal(err)
	}
	if len(keys) != 3 {
		t.Fatalf("iterator returned %d items, want 3", len(keys))
	}
	if keys[0] != "a1" || keys[1] != "a2" || keys[2] != "a3" {
		t.Errorf("keys = %v, want [a1 a2 a3]", keys)
	}
}

func TestMemoryStoreIteratorWithStart(t *testing.T) {
	s := NewMemoryStore()
	s.Put([]byte("a1"), []byte("1"))
	s.Put([]byte("a2"), []byte("2"))
	s.Put([]byte("a3"), []byte("3"))
	s.Put([]byte("b1"), []byte("4"))

	it := s.Iterator([]byte("a"), []byte("a2"))
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	if len(keys) != 2 || keys[0] != "a2" || keys[1] != "a3" {
		t.Errorf("keys = %v, want [a2 a3]", keys)
	}
}

package prooflist

import (
	"errors"
	"testing"

	"github.com/eth2030/prooflist/kv"
)

func buildList(t *testing.T, values ...string) *ProofListIndex[string] {
	t.Helper()
	store := kv.NewMemoryStore()
	l := NewMutable[string]("list", store, stringCodec())
	for _, v := range values {
		if err := l.Push(v); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	return l
}

func TestProofOfEmptyListIsAbsent(t *testing.T) {
	l := buildList(t)
	proof, err := l.GetProof(0)
	if err != nil {
		t.Fatal(err)
	}
	if proof.Kind != KindAbsent {
		t.Fatalf("Kind = %v, want KindAbsent", proof.Kind)
	}
	if proof.Len != 0 {
		t.Errorf("Len = %d, want 0", proof.Len)
	}
}

func TestProofOfSingleElementList(t *testing.T) {
	l := buildList(t, "only")
	proof, err := l.GetProof(0)
	if err != nil {
		t.Fatal(err)
	}
	if proof.Kind != KindLeaf || proof.Leaf != "only" {
		t.Fatalf("proof = %+v, want a leaf proof of 'only'", proof)
	}

	length, _ := l.Len()
	listHash, _ := l.ListHash()
	entries, err := Verify(proof, length, listHash, stringCodec().Marshal)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(entries) != 1 || entries[0].Index != 0 || entries[0].Value != "only" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestProofOutOfBoundsIsAbsent(t *testing.T) {
	l := buildList(t, "a", "b", "c")
	proof, err := l.GetProof(10)
	if err != nil {
		t.Fatal(err)
	}
	if proof.Kind != KindAbsent {
		t.Fatalf("Kind = %v, want KindAbsent", proof.Kind)
	}

	length, _ := l.Len()
	listHash, _ := l.ListHash()
	if _, err := Verify(proof, length, listHash, stringCodec().Marshal); err != nil {
		t.Fatalf("Verify of a genuine absence proof should succeed: %v", err)
	}
}

func TestMembershipProofRoundTripAcrossSizes(t *testing.T) {
	values := []string{"a", "b", "c", "d", "e", "f", "g"}
	for size := 1; size <= len(values); size++ {
		l := buildList(t, values[:size]...)
		length, _ := l.Len()
		listHash, _ := l.ListHash()

		for i := 0; i < size; i++ {
			proof, err := l.GetProof(uint64(i))
			if err != nil {
				t.Fatalf("size=%d GetProof(%d): %v", size, i, err)
			}
			entries, err := Verify(proof, length, listHash, stringCodec().Marshal)
			if err != nil {
				t.Fatalf("size=%d Verify(%d): %v", size, i, err)
			}
			if len(entries) != 1 || entries[0].Index != uint64(i) || entries[0].Value != values[i] {
				t.Errorf("size=%d index=%d entries=%+v", size, i, entries)
			}
		}
	}
}

func TestRangeProofRoundTrip(t *testing.T) {
	values := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	l := buildList(t, values...)
	length, _ := l.Len()
	listHash, _ := l.ListHash()

	proof, err := l.GetRangeProof(2, 6)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := Verify(proof, length, listHash, stringCodec().Marshal)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	for i, e := range entries {
		wantIndex := uint64(2 + i)
		if e.Index != wantIndex || e.Value != values[wantIndex] {
			t.Errorf("entries[%d] = %+v, want index=%d value=%q", i, e, wantIndex, values[wantIndex])
		}
	}
}

func TestRangeProofFullList(t *testing.T) {
	values := []string{"a", "b", "c", "d", "e"}
	l := buildList(t, values...)
	length, _ := l.Len()
	listHash, _ := l.ListHash()

	proof, err := l.GetRangeProof(0, length)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := Verify(proof, length, listHash, stringCodec().Marshal)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(values) {
		t.Fatalf("got %d entries, want %d", len(entries), len(values))
	}
}

func TestRangeProofExceedingLengthIsAbsent(t *testing.T) {
	l := buildList(t, "a", "b", "c")
	proof, err := l.GetRangeProof(1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if proof.Kind != KindAbsent {
		t.Fatalf("Kind = %v, want KindAbsent", proof.Kind)
	}
}

func TestGetRangeProofIllegalRangePanics(t *testing.T) {
	l := buildList(t, "a", "b", "c")
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("GetRangeProof(2, 2) should panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrIllegalRange) {
			t.Fatalf("panic value = %v, want an error wrapping ErrIllegalRange", r)
		}
	}()
	l.GetRangeProof(2, 2)
}

func TestProofAfterSetReflectsNewValue(t *testing.T) {
	l := buildList(t, "a", "b", "c", "d")
	if err := l.Set(2, "C"); err != nil {
		t.Fatal(err)
	}
	length, _ := l.Len()
	listHash, _ := l.ListHash()

	proof, err := l.GetProof(2)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := Verify(proof, length, listHash, stringCodec().Marshal)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].Value != "C" {
		t.Errorf("entries[0].Value = %q, want C", entries[0].Value)
	}
}

package prooflist

import "testing"

func TestHashDomainSeparation(t *testing.T) {
	data := []byte("payload")
	leaf := HashLeaf(data)
	single := HashSingleNode(leaf)
	node := HashNode(leaf, leaf)
	list := HashListNode(1, leaf)

	hashes := []Hash{leaf, single, node, list}
	for i := range hashes {
		for j := i + 1; j < len(hashes); j++ {
			if hashes[i] == hashes[j] {
				t.Errorf("hash domains %d and %d collided: %x", i, j, hashes[i])
			}
		}
	}
}

func TestHashLeafDeterministic(t *testing.T) {
	a := HashLeaf([]byte("same"))
	b := HashLeaf([]byte("same"))
	if a != b {
		t.Error("HashLeaf should be deterministic")
	}
	c := HashLeaf([]byte("different"))
	if a == c {
		t.Error("different payloads should not collide")
	}
}

func TestEmptyListHash(t *testing.T) {
	if EmptyListHash != HashListNode(0, Hash{}) {
		t.Error("EmptyListHash must equal HashListNode(0, zero hash)")
	}
	if EmptyListHash.IsZero() {
		t.Error("EmptyListHash should not be the zero Hash: tag separation prevents that")
	}
}

func TestHashNodeOrderSensitive(t *testing.T) {
	a := HashLeaf([]byte("a"))
	b := HashLeaf([]byte("b"))
	if HashNode(a, b) == HashNode(b, a) {
		t.Error("HashNode must be sensitive to argument order")
	}
}

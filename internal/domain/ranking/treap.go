// Package ranking keeps athletes ordered by learned weight.
//
// Ordering: weight DESC, then ingest sequence ASC (deterministic). The BST
// comparator's "less" means ranks earlier, so in-order traversal yields the
// leaderboard from best to worst.
package ranking

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/okian/rostersim/internal/domain/model"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank   int
	ID     model.AthleteID
	Weight float64
}

type key struct {
	weight float64
	seq    int
}

// less returns true if a should appear before b in the leaderboard.
func less(a, b key) bool {
	if a.weight != b.weight {
		return a.weight > b.weight
	}
	return a.seq < b.seq
}

type node struct {
	id    model.AthleteID
	key   key
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

// priority hashes the id so the tree shape does not depend on weights and
// no draws are taken from the simulation's random source.
func priority(id model.AthleteID) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(id))
	return xxhash.Sum64(b[:])
}

func insert(n *node, id model.AthleteID, k key) *node {
	if n == nil {
		return &node{id: id, key: k, prio: priority(id), size: 1}
	}
	if less(k, n.key) {
		n.left = insert(n.left, id, k)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, k)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func remove(n *node, id model.AthleteID, k key) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.id == id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = remove(n.right, id, k)
		} else {
			n = rotateLeft(n)
			n.left = remove(n.left, id, k)
		}
	case less(k, n.key):
		n.left = remove(n.left, id, k)
	default:
		n.right = remove(n.right, id, k)
	}
	fix(n)
	return n
}

// collect appends up to limit entries in rank order.
func collect(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collect(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Entry{Rank: len(*out) + 1, ID: n.id, Weight: n.key.weight})
	}
	collect(n.right, limit, out)
}

// Index is a treap-backed leaderboard. It is not safe for concurrent use;
// the simulation loop is its only writer and reader.
type Index struct {
	root *node
	keys map[model.AthleteID]key
}

// New returns an empty index.
func New() *Index {
	return &Index{keys: make(map[model.AthleteID]key)}
}

// Set places id at weight. seq breaks ties and is fixed on first insert.
func (x *Index) Set(id model.AthleteID, seq int, weight float64) {
	if old, ok := x.keys[id]; ok {
		if old.weight == weight {
			return
		}
		x.root = remove(x.root, id, old)
		seq = old.seq
	}
	k := key{weight: weight, seq: seq}
	x.keys[id] = k
	x.root = insert(x.root, id, k)
}

// TopN returns the best n entries, best first.
func (x *Index) TopN(n int) []Entry {
	if n <= 0 {
		return nil
	}
	if n > nsize(x.root) {
		n = nsize(x.root)
	}
	out := make([]Entry, 0, n)
	collect(x.root, n, &out)
	return out
}

// Rank returns the 1-based position of id.
func (x *Index) Rank(id model.AthleteID) (Entry, error) {
	k, ok := x.keys[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	rank := 1
	for n := x.root; n != nil; {
		switch {
		case n.id == id:
			return Entry{Rank: rank + nsize(n.left), ID: id, Weight: k.weight}, nil
		case less(k, n.key):
			n = n.left
		default:
			rank += nsize(n.left) + 1
			n = n.right
		}
	}
	return Entry{}, ErrNotFound
}

// Len returns the number of ranked athletes.
func (x *Index) Len() int { return nsize(x.root) }

package services

import (
	"github.com/google/btree"

	"github.com/pokedex/core/internal/domain/entities"
)

type indexEntry struct {
	id       int
	position int
}

// idIndex maps pokemon ids to their position in a loaded document, ordered
// by id. It is rebuilt for every request since documents are never cached.
type idIndex struct {
	tree *btree.BTreeG[indexEntry]
}

func newIDIndex(doc *entities.Document) *idIndex {
	tree := btree.NewG(16, func(a, b indexEntry) bool { return a.id < b.id })
	for i, p := range doc.Data {
		tree.ReplaceOrInsert(indexEntry{id: p.ID, position: i})
	}
	return &idIndex{tree: tree}
}

func (x *idIndex) lookup(id int) (int, bool) {
	e, ok := x.tree.Get(indexEntry{id: id})
	return e.position, ok
}

func (x *idIndex) has(id int) bool {
	return x.tree.Has(indexEntry{id: id})
}

// next returns the position of the smallest id above id, wrapping to the
// smallest id overall.
func (x *idIndex) next(id int) int {
	found := false
	var out indexEntry
	x.tree.AscendGreaterOrEqual(indexEntry{id: id + 1}, func(e indexEntry) bool {
		out, found = e, true
		return false
	})
	if !found {
		out, _ = x.tree.Min()
	}
	return out.position
}

// previous returns the position of the greatest id below id, wrapping to the
// greatest id overall.
func (x *idIndex) previous(id int) int {
	found := false
	var out indexEntry
	x.tree.DescendLessOrEqual(indexEntry{id: id - 1}, func(e indexEntry) bool {
		out, found = e, true
		return false
	})
	if !found {
		out, _ = x.tree.Max()
	}
	return out.position
}

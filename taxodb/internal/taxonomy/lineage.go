package taxonomy

import (
	"fmt"
	"strings"
)

// Lineage holds the ancestors of a taxon, farthest first. LI lists ancestor
// ids and OC their display names; every entry is followed by "; ".
type Lineage struct {
	LI string
	OC string
}

// Walker resolves lineages against a finished taxonomy, optionally
// remembering every result.
type Walker struct {
	tax   *Taxonomy
	cache map[string]Lineage
}

// NewWalker returns a walker. With memoize set, resolved lineages are kept
// for the lifetime of the walker.
func NewWalker(tax *Taxonomy, memoize bool) *Walker {
	w := &Walker{tax: tax}
	if memoize {
		w.cache = make(map[string]Lineage, len(tax.selected))
	}
	return w
}

// Resolve walks from id towards the root. The id itself is never part of
// the result, and neither is the root.
func (w *Walker) Resolve(id string) (Lineage, error) {
	if w.cache != nil {
		if l, ok := w.cache[id]; ok {
			return l, nil
		}
	}
	l, err := w.walk(id)
	if err != nil {
		return Lineage{}, err
	}
	if w.cache != nil {
		w.cache[id] = l
	}
	return l, nil
}

// Precompute resolves every id up front.
func (w *Walker) Precompute(ids []string, progress Progress) error {
	for _, id := range ids {
		if _, err := w.Resolve(id); err != nil {
			return err
		}
		if progress != nil {
			progress.Increment()
		}
	}
	return nil
}

func (w *Walker) walk(id string) (Lineage, error) {
	nodes := w.tax.nodes
	// Ancestors nearest first.
	var ids, classes []string
	limit := len(nodes) + 1
	steps := 0
	cur := id
	for cur != RootID {
		node, ok := nodes[cur]
		if !ok {
			break
		}
		steps++
		if steps > limit {
			return Lineage{}, fmt.Errorf("lineage of %s does not reach the root: %w", id, ErrMalformedGraph)
		}
		parent := node.ParentID
		if parent != RootID {
			ids = append(ids, parent)
		}
		if parent == cur {
			break
		}
		cur = parent
		if cur == RootID {
			continue
		}
		if pnode, ok := nodes[cur]; ok {
			classes = append(classes, ocEntry(pnode))
		}
	}
	return Lineage{LI: joinReversed(ids), OC: joinReversed(classes)}, nil
}

func ocEntry(n *Node) string {
	name, _ := n.DisplayName()
	if n.Rank == noRank {
		return name
	}
	return name + " (" + n.Rank + ")"
}

func joinReversed(parts []string) string {
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
		b.WriteString("; ")
	}
	return b.String()
}

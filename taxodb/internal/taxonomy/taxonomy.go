// Package taxonomy rebuilds the NCBI taxonomy tree from nodes.dmp and
// names.dmp and materializes per-taxon lineages.
//
// A Builder owns the node table while the two dump files are parsed. Finish
// hands the table over as a read-only Taxonomy which the lineage walker and
// the emitters share.
package taxonomy

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	// RootID is the NCBI root taxon; it is its own parent.
	RootID = "1"
	// Separator delimits fields in both dump files.
	Separator = "\t|\t"
	// lineTerminator ends every names.dmp (and nodes.dmp) line before the newline.
	lineTerminator = "\t|"

	noRank = "no rank"
)

// Name classes consulted, in order, when choosing a display name.
var displayClasses = []string{
	"scientific name",
	"equivalent name",
	"synonym",
	"authority",
	"common name",
}

// Ranks selected by the full format.
var fullRanks = map[string]bool{
	"species":    true,
	noRank:       true,
	"subspecies": true,
}

var (
	ErrUnsupportedFormat = errors.New("unsupported taxonomy format")
	ErrMalformedGraph    = errors.New("malformed taxonomy graph")
	ErrNodesNotLoaded    = errors.New("names parsed before nodes")
	ErrFinished          = errors.New("taxonomy builder already finished")
)

// Format decides which taxa are emitted.
type Format string

const (
	// FormatFull keeps taxa ranked species, subspecies or "no rank".
	FormatFull Format = "full"
	// FormatPartial keeps every taxon except the root.
	FormatPartial Format = "partial"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatFull, FormatPartial:
		return f, nil
	}
	return "", fmt.Errorf("taxonomy format %q not supported (%s, %s): %w", s, FormatFull, FormatPartial, ErrUnsupportedFormat)
}

func (f Format) selects(id, rank string) bool {
	if id == RootID {
		return false
	}
	if f == FormatPartial {
		return true
	}
	return fullRanks[rank]
}

// Node is one nodes.dmp entry with the names attached from names.dmp.
type Node struct {
	ID       string
	ParentID string
	Rank     string
	// Names maps a name class to its names in file order.
	Names map[string][]string
}

// DisplayName picks the preferred name of the node. When none of the
// preferred classes is present it falls back to the first name of the
// lexicographically smallest class.
func (n *Node) DisplayName() (string, bool) {
	if n == nil {
		return "", false
	}
	for _, class := range displayClasses {
		if names := n.Names[class]; len(names) > 0 {
			return names[0], true
		}
	}
	for _, class := range n.otherClasses() {
		if names := n.Names[class]; len(names) > 0 {
			return names[0], true
		}
	}
	return "", false
}

// AllNames lists every name of the node: preferred classes first, then the
// remaining classes sorted, each class in file order.
func (n *Node) AllNames() []string {
	if n == nil {
		return nil
	}
	var out []string
	for _, class := range displayClasses {
		out = append(out, n.Names[class]...)
	}
	for _, class := range n.otherClasses() {
		out = append(out, n.Names[class]...)
	}
	return out
}

func (n *Node) otherClasses() []string {
	var classes []string
	for class := range n.Names {
		if !isDisplayClass(class) {
			classes = append(classes, class)
		}
	}
	sort.Strings(classes)
	return classes
}

func isDisplayClass(class string) bool {
	for _, c := range displayClasses {
		if c == class {
			return true
		}
	}
	return false
}

// Taxonomy is the finished, read-only node table.
type Taxonomy struct {
	nodes    map[string]*Node
	selected []string
}

func (t *Taxonomy) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (t *Taxonomy) Len() int {
	return len(t.nodes)
}

// Selected returns the emitted taxon ids in first-seen order.
func (t *Taxonomy) Selected() []string {
	return t.selected
}

// DisplayName returns the display name of id, or "" if id is unknown or has
// no names.
func (t *Taxonomy) DisplayName(id string) string {
	name, _ := t.nodes[id].DisplayName()
	return name
}

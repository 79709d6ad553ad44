package taxonomy

import (
	"fmt"
	"io"
	"strings"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/inputs"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/logx"
)

// Progress receives one tick per parsed line.
type Progress interface {
	Increment()
}

// BuildStats counts what the two parse phases saw.
type BuildStats struct {
	NodeLines  int `json:"node_lines"`
	NameLines  int `json:"name_lines"`
	Duplicates int `json:"duplicate_taxids"`
	Orphans    int `json:"orphan_names"`
	Malformed  int `json:"malformed_lines"`
}

// Builder parses nodes.dmp and then names.dmp into a node table.
type Builder struct {
	format   Format
	log      *logx.Logger
	progress Progress

	nodes       map[string]*Node
	selected    []string
	nodesLoaded bool
	finished    bool
	stats       BuildStats
}

func NewBuilder(format Format, log *logx.Logger) *Builder {
	return &Builder{
		format: format,
		log:    log,
		nodes:  make(map[string]*Node, 1<<16),
	}
}

// SetProgress attaches a per-line progress sink; nil disables it.
func (b *Builder) SetProgress(p Progress) {
	b.progress = p
}

func (b *Builder) Stats() BuildStats {
	return b.stats
}

// LoadNodes parses the nodes dump at path.
func (b *Builder) LoadNodes(path string) error {
	f, err := inputs.Open(path)
	if err != nil {
		return fmt.Errorf("open nodes.dmp %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return b.ReadNodes(f)
}

// LoadNames parses the names dump at path.
func (b *Builder) LoadNames(path string) error {
	f, err := inputs.Open(path)
	if err != nil {
		return fmt.Errorf("open names.dmp %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return b.ReadNames(f)
}

// ReadNodes adds one node per line. A repeated taxon id is reported and the
// first node is kept unchanged.
func (b *Builder) ReadNodes(r io.Reader) error {
	if b.finished {
		return ErrFinished
	}
	scanner := inputs.NewScanner(r)
	for scanner.Scan() {
		b.tick()
		line := trimLine(scanner.Text())
		if line == "" {
			continue
		}
		b.stats.NodeLines++
		fields := strings.Split(line, Separator)
		if len(fields) < 3 {
			b.stats.Malformed++
			b.log.Warnf("Malformed nodes.dmp line %d: %q", b.stats.NodeLines, line)
			continue
		}
		id, parent, rank := fields[0], fields[1], fields[2]
		if _, ok := b.nodes[id]; ok {
			b.stats.Duplicates++
			b.log.Warnf("Duplicate tax_id: %s", id)
			continue
		}
		b.nodes[id] = &Node{
			ID:       id,
			ParentID: parent,
			Rank:     rank,
			Names:    make(map[string][]string, 2),
		}
		if b.format.selects(id, rank) {
			b.selected = append(b.selected, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan nodes.dmp: %w", err)
	}
	b.nodesLoaded = true
	return nil
}

// ReadNames attaches names to already parsed nodes. Names of unknown taxa are
// reported and dropped.
func (b *Builder) ReadNames(r io.Reader) error {
	if b.finished {
		return ErrFinished
	}
	if !b.nodesLoaded {
		return ErrNodesNotLoaded
	}
	scanner := inputs.NewScanner(r)
	for scanner.Scan() {
		b.tick()
		line := trimLine(scanner.Text())
		if line == "" {
			continue
		}
		b.stats.NameLines++
		fields := strings.Split(line, Separator)
		if len(fields) < 4 {
			b.stats.Malformed++
			b.log.Warnf("Malformed names.dmp line %d: %q", b.stats.NameLines, line)
			continue
		}
		id, name, class := fields[0], fields[1], fields[3]
		node, ok := b.nodes[id]
		if !ok {
			b.stats.Orphans++
			b.log.Warnf("No corresponding tax_id: %s", id)
			continue
		}
		node.Names[class] = append(node.Names[class], name)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan names.dmp: %w", err)
	}
	return nil
}

// Finish ends the construction phase. The builder must not be used afterwards.
func (b *Builder) Finish() *Taxonomy {
	b.finished = true
	return &Taxonomy{
		nodes:    b.nodes,
		selected: b.selected,
	}
}

func (b *Builder) tick() {
	if b.progress != nil {
		b.progress.Increment()
	}
}

// trimLine drops a trailing CR and the "\t|" record terminator.
func trimLine(line string) string {
	line = strings.TrimSuffix(line, "\r")
	return strings.TrimSuffix(line, lineTerminator)
}

package catalog

import (
	"mesaifinal_server/lib"
	"mesaifinal_server/structs/tables"
	"sort"

	"github.com/google/uuid"
)

// Tree is an immutable adjacency snapshot of the category table. It is
// built once per resolution from the full set of rows, so path and
// descendant lookups never touch the database and malformed parent links
// (cycles, runaway depth) surface as errors instead of infinite walks.
type Tree struct {
	nodes     map[uuid.UUID]*tables.Category
	children  map[uuid.UUID][]uuid.UUID
	roots     []uuid.UUID
	maxDepth  int
	separator string
}

// TreeNode is the JSON shape cached under the category tree key.
type TreeNode struct {
	Category *tables.Category `json:"category"`
	Children []*TreeNode      `json:"children"`
}

// NewTree builds a snapshot from category rows. Rows whose parent is not in
// the set are treated as roots, so a partial snapshot still resolves.
func NewTree(categories []tables.Category, maxDepth int, separator string) *Tree {
	t := &Tree{
		nodes:     make(map[uuid.UUID]*tables.Category, len(categories)),
		children:  make(map[uuid.UUID][]uuid.UUID),
		maxDepth:  maxDepth,
		separator: separator,
	}

	for i := range categories {
		c := &categories[i]
		t.nodes[c.ID] = c
	}

	for i := range categories {
		c := &categories[i]
		if c.ParentID != nil {
			if _, ok := t.nodes[*c.ParentID]; ok {
				t.children[*c.ParentID] = append(t.children[*c.ParentID], c.ID)
				continue
			}
		}
		t.roots = append(t.roots, c.ID)
	}

	t.sortIDs(t.roots)
	for _, ids := range t.children {
		t.sortIDs(ids)
	}

	return t
}

// sortIDs orders siblings by sort order, then name for a stable tie-break.
func (t *Tree) sortIDs(ids []uuid.UUID) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := t.nodes[ids[i]], t.nodes[ids[j]]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Name < b.Name
	})
}

// Get returns the category row for id, or nil when absent.
func (t *Tree) Get(id uuid.UUID) *tables.Category {
	return t.nodes[id]
}

// FullPath returns the ancestor chain joined by the separator, e.g.
// "Electronics > Computers > Laptops". Cycles and chains deeper than the
// configured maximum are reported as errors.
func (t *Tree) FullPath(id uuid.UUID) (string, error) {
	node, ok := t.nodes[id]
	if !ok {
		return "", lib.ErrNotFound
	}

	names := []string{node.Name}
	visited := map[uuid.UUID]bool{id: true}

	current := node
	for current.ParentID != nil {
		parent, ok := t.nodes[*current.ParentID]
		if !ok {
			break // dangling parent link, treat as root
		}
		if visited[parent.ID] {
			return "", lib.ErrCycleDetected
		}
		if len(names) >= t.maxDepth {
			return "", lib.ErrDepthExceeded
		}

		visited[parent.ID] = true
		names = append(names, parent.Name)
		current = parent
	}

	// Reverse into root-first order
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	path := names[0]
	for _, name := range names[1:] {
		path += t.separator + name
	}
	return path, nil
}

// Descendants returns every category below id, excluding id itself, in
// depth-first sibling order. A cycle anywhere in the subtree is an error.
func (t *Tree) Descendants(id uuid.UUID) ([]tables.Category, error) {
	if _, ok := t.nodes[id]; !ok {
		return nil, lib.ErrNotFound
	}

	var result []tables.Category
	visited := map[uuid.UUID]bool{id: true}

	type frame struct {
		id    uuid.UUID
		depth int
	}

	stack := make([]frame, 0, len(t.children[id]))
	for i := len(t.children[id]) - 1; i >= 0; i-- {
		stack = append(stack, frame{t.children[id][i], 1})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[top.id] {
			return nil, lib.ErrCycleDetected
		}
		if top.depth > t.maxDepth {
			return nil, lib.ErrDepthExceeded
		}
		visited[top.id] = true
		result = append(result, *t.nodes[top.id])

		kids := t.children[top.id]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], top.depth + 1})
		}
	}

	return result, nil
}

// DescendantIDs is Descendants reduced to the identifiers, which is what
// the product aggregation queries need.
func (t *Tree) DescendantIDs(id uuid.UUID) ([]uuid.UUID, error) {
	descendants, err := t.Descendants(id)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(descendants))
	for i := range descendants {
		ids[i] = descendants[i].ID
	}
	return ids, nil
}

// Roots returns the top-level categories in sibling order.
func (t *Tree) Roots() []tables.Category {
	result := make([]tables.Category, 0, len(t.roots))
	for _, id := range t.roots {
		result = append(result, *t.nodes[id])
	}
	return result
}

// Forest materializes the whole hierarchy as nested nodes for caching and
// API responses. Cycles are reported rather than rendered.
func (t *Tree) Forest() ([]*TreeNode, error) {
	visited := make(map[uuid.UUID]bool)

	var build func(id uuid.UUID, depth int) (*TreeNode, error)
	build = func(id uuid.UUID, depth int) (*TreeNode, error) {
		if visited[id] {
			return nil, lib.ErrCycleDetected
		}
		if depth > t.maxDepth {
			return nil, lib.ErrDepthExceeded
		}
		visited[id] = true

		node := &TreeNode{Category: t.nodes[id], Children: []*TreeNode{}}
		for _, childID := range t.children[id] {
			child, err := build(childID, depth+1)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
		return node, nil
	}

	forest := make([]*TreeNode, 0, len(t.roots))
	for _, rootID := range t.roots {
		node, err := build(rootID, 1)
		if err != nil {
			return nil, err
		}
		forest = append(forest, node)
	}
	return forest, nil
}

// ValidateParent reports whether assigning parentID to categoryID keeps the
// tree acyclic and within the depth bound. Used before category writes.
func (t *Tree) ValidateParent(categoryID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if *parentID == categoryID {
		return lib.ErrCycleDetected
	}

	parent, ok := t.nodes[*parentID]
	if !ok {
		return lib.ErrNotFound
	}

	// Walk up from the proposed parent. Hitting categoryID means the
	// assignment would close a cycle.
	visited := map[uuid.UUID]bool{}
	depth := 1
	current := parent
	for {
		if current.ID == categoryID || visited[current.ID] {
			return lib.ErrCycleDetected
		}
		visited[current.ID] = true
		depth++
		if depth > t.maxDepth {
			return lib.ErrDepthExceeded
		}
		if current.ParentID == nil {
			return nil
		}
		next, ok := t.nodes[*current.ParentID]
		if !ok {
			return nil
		}
		current = next
	}
}

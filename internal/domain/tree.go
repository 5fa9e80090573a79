package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// PathSeparator joins category names in a full path ("Home > Utilities > Gas").
const PathSeparator = " > "

// Tree is an arena of categories keyed by ID, with parent/child relations
// stored as ID links. Categories are identified by ID everywhere; name lookup
// is a convenience helper, never identity.
//
// The tree is cycle-free by construction: AddSubcategory rejects any link that
// would make a node its own ancestor, and leaves both nodes untouched when it
// does.
type Tree struct {
	nodes    map[uuid.UUID]*Category
	children map[uuid.UUID]map[uuid.UUID]struct{}
}

// NewTree creates an empty category tree.
func NewTree() *Tree {
	return &Tree{
		nodes:    make(map[uuid.UUID]*Category),
		children: make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

// BuildTree assembles a tree from stored categories, deriving the children
// sets from the parent ID links.
func BuildTree(categories []*Category) (*Tree, error) {
	t := NewTree()
	for _, c := range categories {
		if err := t.Add(c); err != nil {
			return nil, err
		}
	}
	for _, c := range categories {
		if c.ParentID == nil {
			continue
		}
		if _, ok := t.nodes[*c.ParentID]; !ok {
			return nil, fmt.Errorf("%w: parent category %s of %q", ErrNotFound, c.ParentID, c.Name)
		}
		t.children[*c.ParentID][c.ID] = struct{}{}
	}
	for id := range t.nodes {
		if err := t.checkParentChain(id); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add registers a category in the arena without linking it to a parent.
func (t *Tree) Add(c *Category) error {
	if c == nil {
		return fmt.Errorf("%w: category cannot be nil", ErrValidation)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if _, ok := t.nodes[c.ID]; ok {
		return fmt.Errorf("%w: category %s already registered", ErrConflict, c.ID)
	}
	t.nodes[c.ID] = c
	t.children[c.ID] = make(map[uuid.UUID]struct{})
	return nil
}

// Get returns the category with the given ID, or ErrNotFound.
func (t *Tree) Get(id uuid.UUID) (*Category, error) {
	c, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: category %s", ErrNotFound, id)
	}
	return c, nil
}

// All returns every category in the arena, sorted by name for stable output.
func (t *Tree) All() []*Category {
	out := make([]*Category, 0, len(t.nodes))
	for _, c := range t.nodes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddSubcategory links child under parent. It fails with ErrCycle if the link
// would make a node its own ancestor, leaving both nodes unmodified.
func (t *Tree) AddSubcategory(parentID, childID uuid.UUID) error {
	parent, err := t.Get(parentID)
	if err != nil {
		return err
	}
	child, err := t.Get(childID)
	if err != nil {
		return err
	}
	if parentID == childID {
		return fmt.Errorf("%w: cannot add category %q as subcategory of itself", ErrCycle, child.Name)
	}
	if t.isAncestorOf(childID, parentID) {
		return fmt.Errorf("%w: %q is an ancestor of %q", ErrCycle, child.Name, parent.Name)
	}
	// Re-parenting: unlink from the previous parent first.
	if child.ParentID != nil {
		delete(t.children[*child.ParentID], childID)
	}
	pid := parentID
	child.ParentID = &pid
	t.children[parentID][childID] = struct{}{}
	return nil
}

// RemoveSubcategory unlinks child from parent. It is a no-op when child is not
// currently a direct subcategory of parent; the child is never deleted.
func (t *Tree) RemoveSubcategory(parentID, childID uuid.UUID) {
	set, ok := t.children[parentID]
	if !ok {
		return
	}
	if _, linked := set[childID]; !linked {
		return
	}
	delete(set, childID)
	if child, ok := t.nodes[childID]; ok {
		child.ParentID = nil
	}
}

// Remove deletes a category from the arena. Direct children are unlinked and
// become roots; they are not deleted.
func (t *Tree) Remove(id uuid.UUID) error {
	c, err := t.Get(id)
	if err != nil {
		return err
	}
	if c.ParentID != nil {
		delete(t.children[*c.ParentID], id)
	}
	for childID := range t.children[id] {
		if child, ok := t.nodes[childID]; ok {
			child.ParentID = nil
		}
	}
	delete(t.children, id)
	delete(t.nodes, id)
	return nil
}

// FullPath returns the ancestor chain of a category joined by PathSeparator,
// root first, own name last.
func (t *Tree) FullPath(id uuid.UUID) (string, error) {
	c, err := t.Get(id)
	if err != nil {
		return "", err
	}
	names := []string{c.Name}
	for c.ParentID != nil {
		parent, ok := t.nodes[*c.ParentID]
		if !ok {
			break
		}
		names = append(names, parent.Name)
		c = parent
	}
	// Reverse to root-first order.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, PathSeparator), nil
}

// Descendants returns every category reachable through children links,
// transitively. The node itself is excluded and each descendant appears
// exactly once. No ordering is guaranteed.
func (t *Tree) Descendants(id uuid.UUID) ([]*Category, error) {
	if _, err := t.Get(id); err != nil {
		return nil, err
	}
	var out []*Category
	seen := map[uuid.UUID]struct{}{id: {}}
	stack := []uuid.UUID{id}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for childID := range t.children[current] {
			if _, dup := seen[childID]; dup {
				continue
			}
			seen[childID] = struct{}{}
			out = append(out, t.nodes[childID])
			stack = append(stack, childID)
		}
	}
	return out, nil
}

// IsDescendantOf reports whether id sits anywhere under ancestorID. A node is
// not a descendant of itself.
func (t *Tree) IsDescendantOf(id, ancestorID uuid.UUID) bool {
	if id == ancestorID {
		return false
	}
	return t.isAncestorOf(ancestorID, id)
}

// Children returns the direct subcategories of a category, sorted by name.
func (t *Tree) Children(id uuid.UUID) []*Category {
	out := make([]*Category, 0, len(t.children[id]))
	for childID := range t.children[id] {
		out = append(out, t.nodes[childID])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Roots returns every category without a parent, sorted by name.
func (t *Tree) Roots() []*Category {
	var out []*Category
	for _, c := range t.nodes {
		if c.ParentID == nil {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsLeaf reports whether a category has no subcategories.
func (t *Tree) IsLeaf(id uuid.UUID) bool {
	return len(t.children[id]) == 0
}

// IsRoot reports whether a category has no parent.
func (t *Tree) IsRoot(id uuid.UUID) bool {
	c, ok := t.nodes[id]
	return ok && c.ParentID == nil
}

// FindByName returns the first category whose name matches case-insensitively,
// or nil. Convenience lookup only; identity remains ID-based.
func (t *Tree) FindByName(name string) *Category {
	for _, c := range t.All() {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// checkParentChain guards BuildTree against stored data containing a parent
// loop, which would otherwise make every chain walk spin forever.
func (t *Tree) checkParentChain(id uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{})
	c := t.nodes[id]
	for c.ParentID != nil {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: category %s is part of a parent loop", ErrCycle, id)
		}
		seen[c.ID] = struct{}{}
		parent, ok := t.nodes[*c.ParentID]
		if !ok {
			return nil
		}
		c = parent
	}
	return nil
}

// isAncestorOf walks the parent chain of nodeID looking for ancestorID.
func (t *Tree) isAncestorOf(ancestorID, nodeID uuid.UUID) bool {
	c, ok := t.nodes[nodeID]
	if !ok {
		return false
	}
	for c.ParentID != nil {
		if *c.ParentID == ancestorID {
			return true
		}
		parent, ok := t.nodes[*c.ParentID]
		if !ok {
			return false
		}
		c = parent
	}
	return false
}

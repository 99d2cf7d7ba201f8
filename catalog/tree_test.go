package catalog

import (
	"errors"
	"testing"

	"mesaifinal_server/lib"
	"mesaifinal_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeCategory(name string, parentID *uuid.UUID, sortOrder int) tables.Category {
	return tables.Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      lib.Slugify(name),
		ParentID:  parentID,
		IsActive:  true,
		SortOrder: sortOrder,
	}
}

// electronics > computers > laptops plus a books root.
func buildFixture() (electronics, computers, laptops, books tables.Category) {
	electronics = makeCategory("Electronics", nil, 0)
	computers = makeCategory("Computers", &electronics.ID, 0)
	laptops = makeCategory("Laptops", &computers.ID, 0)
	books = makeCategory("Books", nil, 1)
	return
}

func TestTreeFullPath(t *testing.T) {
	electronics, computers, laptops, books := buildFixture()
	tree := NewTree([]tables.Category{electronics, computers, laptops, books}, 100, " > ")

	path, err := tree.FullPath(laptops.ID)
	require.NoError(t, err)
	assert.Equal(t, "Electronics > Computers > Laptops", path)

	path, err = tree.FullPath(electronics.ID)
	require.NoError(t, err)
	assert.Equal(t, "Electronics", path)

	_, err = tree.FullPath(uuid.New())
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestTreeFullPathDanglingParentIsRoot(t *testing.T) {
	orphanParent := uuid.New()
	orphan := makeCategory("Orphan", &orphanParent, 0)
	tree := NewTree([]tables.Category{orphan}, 100, " > ")

	path, err := tree.FullPath(orphan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Orphan", path)

	roots := tree.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, orphan.ID, roots[0].ID)
}

func TestTreeFullPathCycle(t *testing.T) {
	a := makeCategory("A", nil, 0)
	b := makeCategory("B", &a.ID, 0)
	a.ParentID = &b.ID // a <-> b

	tree := NewTree([]tables.Category{a, b}, 100, " > ")

	_, err := tree.FullPath(a.ID)
	assert.ErrorIs(t, err, lib.ErrCycleDetected)
}

func TestTreeFullPathDepthExceeded(t *testing.T) {
	const depth = 10
	categories := make([]tables.Category, depth)
	var parent *uuid.UUID
	for i := 0; i < depth; i++ {
		categories[i] = makeCategory(string(rune('A'+i)), parent, 0)
		parent = &categories[i].ID
	}

	tree := NewTree(categories, 5, " > ")

	_, err := tree.FullPath(categories[depth-1].ID)
	assert.ErrorIs(t, err, lib.ErrDepthExceeded)

	// Within the bound the path still resolves
	path, err := tree.FullPath(categories[4].ID)
	require.NoError(t, err)
	assert.Equal(t, "A > B > C > D > E", path)
}

func TestTreeDescendants(t *testing.T) {
	electronics, computers, laptops, books := buildFixture()
	tree := NewTree([]tables.Category{electronics, computers, laptops, books}, 100, " > ")

	descendants, err := tree.Descendants(electronics.ID)
	require.NoError(t, err)
	require.Len(t, descendants, 2)
	assert.Equal(t, computers.ID, descendants[0].ID)
	assert.Equal(t, laptops.ID, descendants[1].ID)

	descendants, err = tree.Descendants(laptops.ID)
	require.NoError(t, err)
	assert.Empty(t, descendants)

	_, err = tree.Descendants(uuid.New())
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestTreeDescendantIDs(t *testing.T) {
	electronics, computers, laptops, books := buildFixture()
	tree := NewTree([]tables.Category{electronics, computers, laptops, books}, 100, " > ")

	ids, err := tree.DescendantIDs(electronics.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{computers.ID, laptops.ID}, ids)
}

func TestTreeRootsOrdering(t *testing.T) {
	first := makeCategory("Zebra", nil, 0)
	second := makeCategory("Apple", nil, 1)
	// Same sort order resolves by name
	third := makeCategory("Mango", nil, 1)

	tree := NewTree([]tables.Category{second, third, first}, 100, " > ")

	roots := tree.Roots()
	require.Len(t, roots, 3)
	assert.Equal(t, "Zebra", roots[0].Name)
	assert.Equal(t, "Apple", roots[1].Name)
	assert.Equal(t, "Mango", roots[2].Name)
}

func TestTreeForest(t *testing.T) {
	electronics, computers, laptops, books := buildFixture()
	tree := NewTree([]tables.Category{electronics, computers, laptops, books}, 100, " > ")

	forest, err := tree.Forest()
	require.NoError(t, err)
	require.Len(t, forest, 2)

	assert.Equal(t, electronics.ID, forest[0].Category.ID)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, computers.ID, forest[0].Children[0].Category.ID)
	require.Len(t, forest[0].Children[0].Children, 1)
	assert.Equal(t, laptops.ID, forest[0].Children[0].Children[0].Category.ID)

	assert.Equal(t, books.ID, forest[1].Category.ID)
	assert.Empty(t, forest[1].Children)
}

func TestValidateParent(t *testing.T) {
	electronics, computers, laptops, books := buildFixture()
	tree := NewTree([]tables.Category{electronics, computers, laptops, books}, 100, " > ")

	tests := []struct {
		name       string
		categoryID uuid.UUID
		parentID   *uuid.UUID
		wantErr    error
	}{
		{"nil parent is always valid", electronics.ID, nil, nil},
		{"valid reparent", books.ID, &computers.ID, nil},
		{"self parent", electronics.ID, &electronics.ID, lib.ErrCycleDetected},
		{"descendant as parent", electronics.ID, &laptops.ID, lib.ErrCycleDetected},
		{"unknown parent", books.ID, ptr(uuid.New()), lib.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tree.ValidateParent(tt.categoryID, tt.parentID)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateParentDepthBound(t *testing.T) {
	const depth = 6
	categories := make([]tables.Category, depth)
	var parent *uuid.UUID
	for i := 0; i < depth; i++ {
		categories[i] = makeCategory(string(rune('A'+i)), parent, 0)
		parent = &categories[i].ID
	}
	newcomer := makeCategory("Newcomer", nil, 0)
	categories = append(categories, newcomer)

	tree := NewTree(categories, 5, " > ")

	err := tree.ValidateParent(newcomer.ID, &categories[depth-1].ID)
	assert.ErrorIs(t, err, lib.ErrDepthExceeded)

	err = tree.ValidateParent(newcomer.ID, &categories[0].ID)
	assert.NoError(t, err)
}

func ptr[T any](v T) *T { return &v }

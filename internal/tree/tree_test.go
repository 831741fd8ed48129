package tree

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/haierkeys/note-tree-service/internal/dto"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func note(id int64, name string, parent *int64) *dto.NoteDTO {
	return &dto.NoteDTO{ID: id, Name: name, ParentID: parent}
}

func names(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestBuild_ParentBeforeLeaf(t *testing.T) {
	roots := Build([]*dto.NoteDTO{
		note(1, "Zebra", nil),
		note(2, "apple", nil),
		note(3, "seed", ptr(2)),
	})
	require.Len(t, roots, 2)
	assert.Equal(t, []string{"apple", "Zebra"}, names(roots))
	assert.Equal(t, []string{"seed"}, names(roots[0].Children))
}

func TestBuild_CaseInsensitiveLeaves(t *testing.T) {
	roots := Build([]*dto.NoteDTO{
		note(1, "Banana", nil),
		note(2, "apple", nil),
		note(3, "cherry", nil),
	})
	assert.Equal(t, []string{"apple", "Banana", "cherry"}, names(roots))
}

func TestBuild_OrphanBecomesRoot(t *testing.T) {
	roots := Build([]*dto.NoteDTO{
		note(1, "root", nil),
		note(2, "lost", ptr(99)),
		note(3, "child", ptr(1)),
	})
	assert.ElementsMatch(t, []string{"root", "lost"}, names(roots))
	for _, r := range roots {
		if r.Name == "lost" {
			assert.Empty(t, r.Children)
			assert.Equal(t, int64(99), *r.ParentID)
		}
	}
}

func TestBuild_CycleInDataIsStillRendered(t *testing.T) {
	roots := Build([]*dto.NoteDTO{
		note(1, "a", ptr(2)),
		note(2, "b", ptr(1)),
		note(3, "self", ptr(3)),
	})
	count := 0
	Walk(roots, func(n *Node, depth int) { count++ })
	assert.Equal(t, 3, count)
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	input := []*dto.NoteDTO{note(2, "b", nil), note(1, "a", nil)}
	Build(input)
	assert.Equal(t, int64(2), input[0].ID)
}

func TestWalk_Depth(t *testing.T) {
	roots := Build([]*dto.NoteDTO{
		note(1, "a", nil),
		note(2, "b", ptr(1)),
		note(3, "c", ptr(2)),
	})
	var got []string
	Walk(roots, func(n *Node, depth int) {
		got = append(got, fmt.Sprintf("%d:%s", depth, n.Name))
	})
	assert.Equal(t, []string{"0:a", "1:b", "2:c"}, got)
}

func TestBuild_Deterministic(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// parents[i] 为 0 表示根，否则指向 id 为 parents[i] 的笔记（可能不存在）
	properties.Property("same input builds equal trees", prop.ForAll(
		func(parents []int, nameIdx []int) bool {
			pool := []string{"apple", "Apple", "banana", "Zebra", "zebra", "Éclair", "note"}
			notes := make([]*dto.NoteDTO, len(parents))
			for i, p := range parents {
				var parent *int64
				if p > 0 {
					parent = ptr(int64(p))
				}
				notes[i] = note(int64(i+1), pool[nameIdx[i%len(nameIdx)]%len(pool)], parent)
			}
			return reflect.DeepEqual(Build(notes), Build(notes))
		},
		gen.SliceOfN(10, gen.IntRange(0, 12)),
		gen.SliceOfN(10, gen.IntRange(0, 6)),
	))

	properties.Property("every note appears exactly once", prop.ForAll(
		func(parents []int) bool {
			notes := make([]*dto.NoteDTO, len(parents))
			for i, p := range parents {
				var parent *int64
				if p > 0 {
					parent = ptr(int64(p))
				}
				notes[i] = note(int64(i+1), "n", parent)
			}
			seen := map[int64]int{}
			Walk(Build(notes), func(n *Node, depth int) { seen[n.ID]++ })
			if len(seen) != len(notes) {
				return false
			}
			for _, c := range seen {
				if c != 1 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(10, gen.IntRange(0, 12)),
	))

	properties.TestingRun(t)
}

func TestBuildPaths(t *testing.T) {
	nodes := BuildPaths([]PathEntry{
		{Path: "notes/zeta.md", Note: note(1, "zeta.md", nil)},
		{Path: "notes/Alpha.md", Note: note(2, "Alpha.md", nil)},
		{Path: "readme.md", Note: note(3, "readme.md", nil)},
		{Path: "archive/2024/old.md", Note: note(4, "old.md", nil)},
		{Path: "", Note: note(5, "ignored", nil)},
	})

	require.Len(t, nodes, 3)
	assert.Equal(t, "archive", nodes[0].Name)
	assert.True(t, nodes[0].IsDir)
	assert.Equal(t, "notes", nodes[1].Name)
	assert.Equal(t, "readme.md", nodes[2].Name)
	assert.False(t, nodes[2].IsDir)

	require.Len(t, nodes[1].Children, 2)
	assert.Equal(t, "Alpha.md", nodes[1].Children[0].Name)
	assert.Equal(t, "notes/Alpha.md", nodes[1].Children[0].Path)
	assert.Equal(t, int64(2), nodes[1].Children[0].Note.ID)

	assert.Equal(t, "archive/2024/old.md", nodes[0].Children[0].Children[0].Path)
}

func TestBuildPaths_NoteThatIsAlsoDirectory(t *testing.T) {
	nodes := BuildPaths([]PathEntry{
		{Path: "a/b", Note: note(2, "b", nil)},
		{Path: "a", Note: note(1, "a", nil)},
	})
	require.Len(t, nodes, 1)
	assert.True(t, nodes[0].IsDir)
	require.NotNil(t, nodes[0].Note)
	assert.Equal(t, int64(1), nodes[0].Note.ID)
}

func TestPaths(t *testing.T) {
	paths := Paths([]*dto.NoteDTO{
		note(1, "Projects", nil),
		note(2, "Go", ptr(1)),
		note(3, "Notes", ptr(2)),
		note(4, "Orphan", ptr(42)),
		note(5, "loop", ptr(5)),
	})
	assert.Equal(t, "Projects", paths[1])
	assert.Equal(t, "Projects/Go/Notes", paths[3])
	assert.Equal(t, "Orphan", paths[4])
	assert.Equal(t, "loop", paths[5])
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitPath("/a//b/"))
	assert.Empty(t, SplitPath(""))
}

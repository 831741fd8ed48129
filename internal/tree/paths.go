package tree

import (
	"slices"
	"strings"

	"github.com/haierkeys/note-tree-service/internal/dto"
)

// PathSeparator 物化路径分隔符
const PathSeparator = "/"

// PathEntry 物化路径输入项
type PathEntry struct {
	Path string
	Note *dto.NoteDTO
}

// PathNode 物化路径树节点
// 中间段为目录，最后一段为携带笔记的叶子；同一路径既是目录又有笔记时两者兼有
type PathNode struct {
	Name     string       `json:"name"`
	Path     string       `json:"path"`
	IsDir    bool         `json:"isDir"`
	Note     *dto.NoteDTO `json:"note,omitempty"`
	Children []*PathNode  `json:"children"`
}

// SplitPath 拆分路径并去掉空段
func SplitPath(p string) []string {
	parts := strings.Split(p, PathSeparator)
	return slices.DeleteFunc(parts, func(s string) bool { return strings.TrimSpace(s) == "" })
}

// BuildPaths 根据物化路径构建森林，目录在前，其次按名称排序
func BuildPaths(entries []PathEntry) []*PathNode {
	root := &PathNode{IsDir: true}
	index := map[string]*PathNode{"": root}

	for _, e := range entries {
		segments := SplitPath(e.Path)
		if len(segments) == 0 {
			continue
		}
		parent := root
		for i, seg := range segments {
			full := strings.Join(segments[:i+1], PathSeparator)
			node, ok := index[full]
			if !ok {
				node = &PathNode{Name: seg, Path: full, Children: []*PathNode{}}
				index[full] = node
				parent.Children = append(parent.Children, node)
			}
			if i < len(segments)-1 {
				node.IsDir = true
			} else if node.Note == nil {
				node.Note = e.Note
			}
			parent = node
		}
	}

	s := newSorter()
	s.sortPathNodes(root.Children)
	return root.Children
}

func (s *sorter) sortPathNodes(list []*PathNode) {
	slices.SortStableFunc(list, func(a, b *PathNode) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		return s.compareNames(a.Name, b.Name)
	})
	for _, n := range list {
		s.sortPathNodes(n.Children)
	}
}

// Paths 计算每个笔记的物化路径
// 路径由名称按父链拼接，遇到悬空父引用或环时从该处截断
func Paths(notes []*dto.NoteDTO) map[int64]string {
	byID := make(map[int64]*dto.NoteDTO, len(notes))
	for _, n := range notes {
		if n != nil {
			byID[n.ID] = n
		}
	}

	result := make(map[int64]string, len(byID))
	for id, n := range byID {
		segments := []string{n.Name}
		seen := map[int64]bool{id: true}
		cur := n.ParentID
		for cur != nil && !seen[*cur] {
			p, ok := byID[*cur]
			if !ok {
				break
			}
			seen[*cur] = true
			segments = append(segments, p.Name)
			cur = p.ParentID
		}
		slices.Reverse(segments)
		result[id] = strings.Join(segments, PathSeparator)
	}
	return result
}

// Package tree 将扁平笔记列表重建为用于展示的森林
// 纯函数，不修改输入，同样输入多次调用得到结构一致的结果
package tree

import (
	"slices"

	"github.com/haierkeys/note-tree-service/internal/dto"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Node 展示节点
type Node struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	ParentID *int64       `json:"parentId"`
	Note     *dto.NoteDTO `json:"note,omitempty"`
	Children []*Node      `json:"children"`
}

// HasChildren 是否有子节点
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Build 根据 parentId 构建森林
// parentId 为空或指向列表中不存在的笔记时作为根节点
func Build(notes []*dto.NoteDTO) []*Node {
	nodes := make(map[int64]*Node, len(notes))
	order := make([]*Node, 0, len(notes))
	for _, n := range notes {
		if n == nil {
			continue
		}
		node := &Node{
			ID:       n.ID,
			Name:     n.Name,
			ParentID: n.ParentID,
			Note:     n,
			Children: []*Node{},
		}
		nodes[n.ID] = node
		order = append(order, node)
	}

	roots := make([]*Node, 0)
	for _, node := range order {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*node.ParentID]
		if !ok || parent == node {
			// 孤儿
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	// 数据中存在环时环上节点不会挂到任何根下，这里将其提升为根
	reachable := make(map[int64]bool, len(nodes))
	var mark func(list []*Node)
	mark = func(list []*Node) {
		for _, n := range list {
			if reachable[n.ID] {
				continue
			}
			reachable[n.ID] = true
			mark(n.Children)
		}
	}
	mark(roots)
	for _, node := range order {
		if !reachable[node.ID] {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Children = slices.DeleteFunc(parent.Children, func(c *Node) bool { return c == node })
			}
			roots = append(roots, node)
			mark([]*Node{node})
		}
	}

	s := newSorter()
	s.sortNodes(roots)
	return roots
}

// Walk 深度优先遍历，depth 从 0 开始
func Walk(nodes []*Node, fn func(n *Node, depth int)) {
	var walk func(list []*Node, depth int)
	walk = func(list []*Node, depth int) {
		for _, n := range list {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(nodes, 0)
}

// sorter 同级排序：有子节点的在前，其次按名称做大小写无关的本地化排序
// collate.Collator 非并发安全，每次 Build 单独创建
type sorter struct {
	col *collate.Collator
}

func newSorter() *sorter {
	return &sorter{col: collate.New(language.Und, collate.IgnoreCase)}
}

func (s *sorter) compareNames(a, b string) int {
	if c := s.col.CompareString(a, b); c != 0 {
		return c
	}
	// 忽略大小写相等时按原始字节保证稳定
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (s *sorter) sortNodes(list []*Node) {
	slices.SortStableFunc(list, func(a, b *Node) int {
		if a.HasChildren() != b.HasChildren() {
			if a.HasChildren() {
				return -1
			}
			return 1
		}
		if c := s.compareNames(a.Name, b.Name); c != 0 {
			return c
		}
		return cmpInt64(a.ID, b.ID)
	})
	for _, n := range list {
		s.sortNodes(n.Children)
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

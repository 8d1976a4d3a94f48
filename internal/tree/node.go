// Package tree implements the baseline set of known replay paths as a trie keyed by path
// components. Entries can be inserted and looked up but never removed.
//
// A Node is not safe for concurrent use; callers serialize access.
package tree

import (
	"path/filepath"
	"strings"
)

type NodeType uint8

const (
	NodeTypeFile NodeType = iota
	NodeTypeFolder
)

type Node struct {
	Name     string
	Type     NodeType
	Children map[string]*Node

	// size is only maintained on the root node
	size int
}

func NewTree() *Node {
	return NewNode("", NodeTypeFolder)
}

func NewNode(name string, typ NodeType) *Node {
	return &Node{
		Name:     name,
		Type:     typ,
		Children: make(map[string]*Node),
	}
}

// Insert records the path in the tree. It returns false if the path was already present.
func (n *Node) Insert(path string) bool {
	node := n
	for _, part := range splitPath(path) {
		child, ok := node.Children[part]
		if !ok {
			child = NewNode(part, NodeTypeFolder)
			node.Children[part] = child
		}
		node = child
	}
	if node == n || node.Type == NodeTypeFile {
		return false
	}
	node.Type = NodeTypeFile
	n.size++
	return true
}

// Contains reports whether the path was previously inserted.
func (n *Node) Contains(path string) bool {
	node := n
	for _, part := range splitPath(path) {
		child, ok := node.Children[part]
		if !ok {
			return false
		}
		node = child
	}
	return node != n && node.Type == NodeTypeFile
}

// Len returns the number of paths inserted into the tree rooted at n.
func (n *Node) Len() int {
	return n.size
}

// Paths returns every inserted path, in no particular order.
func (n *Node) Paths() []string {
	paths := make([]string, 0, n.size)
	var walk func(node *Node, prefix []string)
	walk = func(node *Node, prefix []string) {
		for name, child := range node.Children {
			parts := append(prefix[:len(prefix):len(prefix)], name)
			if child.Type == NodeTypeFile {
				paths = append(paths, joinPath(parts))
			}
			walk(child, parts)
		}
	}
	walk(n, nil)
	return paths
}

// splitPath breaks a cleaned path into components. Absolute paths keep a leading empty
// component so that "/a" and "a" stay distinct.
func splitPath(path string) []string {
	path = filepath.ToSlash(filepath.Clean(path))
	if path == "." || path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func joinPath(parts []string) string {
	return filepath.FromSlash(strings.Join(parts, "/"))
}

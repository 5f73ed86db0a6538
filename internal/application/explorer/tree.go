package explorer

import (
	"encoding/json"
	"sort"
	"strings"
)

// TreeItem is one node of the explorer tree. Files have no children; directories always have at least one.
type TreeItem struct {
	Name     string
	Path     string
	Children []TreeItem
}

// IsDir reports whether the item is a directory node.
func (t TreeItem) IsDir() bool { return len(t.Children) > 0 }

// MarshalJSON encodes the tree in the shape the web tree view renders: a file is its name,
// a directory is [name, ...children].
func (t TreeItem) MarshalJSON() ([]byte, error) {
	if !t.IsDir() {
		return json.Marshal(t.Name)
	}
	out := make([]any, 0, len(t.Children)+1)
	out = append(out, t.Name)
	for _, c := range t.Children {
		out = append(out, c)
	}
	return json.Marshal(out)
}

// ConvertFilesToTreeItems nests file paths by "/" segment. Paths are sorted before insertion so the
// result is deterministic; a bare file name becomes a root leaf. Empty segments are kept as nodes
// named "", so FlattenTree gives back every key exactly.
func ConvertFilesToTreeItems(files map[string]string) []TreeItem {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	root := &node{}
	for _, p := range paths {
		segments := strings.Split(p, "/")
		cur := root
		for _, dir := range segments[:len(segments)-1] {
			cur = cur.dir(dir)
		}
		cur.items = append(cur.items, &node{name: segments[len(segments)-1], path: p})
	}
	return root.build()
}

// FlattenTree returns the file paths of every leaf, depth first.
func FlattenTree(items []TreeItem) []string {
	var out []string
	var walk func(prefix string, top bool, items []TreeItem)
	walk = func(prefix string, top bool, items []TreeItem) {
		for _, it := range items {
			full := it.Name
			if !top {
				full = prefix + "/" + it.Name
			}
			if it.IsDir() {
				walk(full, false, it.Children)
				continue
			}
			out = append(out, full)
		}
	}
	walk("", true, items)
	return out
}

type node struct {
	name  string
	path  string
	isDir bool
	items []*node
}

func (n *node) dir(name string) *node {
	for _, it := range n.items {
		if it.isDir && it.name == name {
			return it
		}
	}
	d := &node{name: name, isDir: true}
	n.items = append(n.items, d)
	return d
}

func (n *node) build() []TreeItem {
	out := make([]TreeItem, 0, len(n.items))
	for _, it := range n.items {
		item := TreeItem{Name: it.name, Path: it.path}
		if it.isDir {
			item.Children = it.build()
		}
		out = append(out, item)
	}
	return out
}

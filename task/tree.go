package task

// TreeNode is a hierarchical projection of one task and its children, in
// sibling order. It carries no scoring state.
type TreeNode struct {
	Task     *Task
	Children []*TreeNode
}

// BuildTree projects a flat task map into ordered trees rooted at rootIDs.
// References to absent tasks are skipped.
func BuildTree(rootIDs []ID, tasks map[ID]*Task) []*TreeNode {
	nodes := make([]*TreeNode, 0, len(rootIDs))
	for _, id := range rootIDs {
		if node := buildTreeNode(id, tasks, make(map[ID]bool)); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func buildTreeNode(id ID, tasks map[ID]*Task, path map[ID]bool) *TreeNode {
	t, ok := tasks[id]
	if !ok || path[id] {
		return nil
	}
	path[id] = true
	defer delete(path, id)

	node := &TreeNode{Task: t}
	for _, childID := range t.ChildTaskIDs {
		if child := buildTreeNode(childID, tasks, path); child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node
}

// Descendants returns every task ID inside the subtree rooted at id,
// excluding id itself. Missing references are skipped.
func (s *Snapshot) Descendants(id ID) []ID {
	var result []ID
	seen := make(map[ID]bool)

	stack := []ID{}
	if t, ok := s.Tasks[id]; ok {
		stack = append(stack, t.ChildTaskIDs...)
	}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[current] {
			continue
		}
		seen[current] = true
		result = append(result, current)
		if t, ok := s.Tasks[current]; ok {
			stack = append(stack, t.ChildTaskIDs...)
		}
	}

	return result
}

// Ancestors returns the task's ancestor IDs from parent up to the root.
func (s *Snapshot) Ancestors(id ID) []ID {
	var result []ID
	current, ok := s.Tasks[id]
	for ok && current.ParentID != "" {
		result = append(result, current.ParentID)
		if len(result) > len(s.Tasks) {
			break
		}
		current, ok = s.Tasks[current.ParentID]
	}
	return result
}

// Siblings returns the ordered sibling set containing id, including id
// itself: the parent's child list, or the root list for roots.
func (s *Snapshot) Siblings(id ID) []ID {
	t, ok := s.Tasks[id]
	if !ok {
		return nil
	}
	if t.ParentID == "" {
		return s.RootTaskIDs
	}
	parent, ok := s.Tasks[t.ParentID]
	if !ok {
		return nil
	}
	return parent.ChildTaskIDs
}

// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package stratcomm

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

// Render returns the lowered program as text, one block per section, for
// inspection with --print-ir.
func (fn *Function) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "function %s:\n", fn.Name)
	for _, b := range fn.Blocks {
		fmt.Fprintf(&sb, "%s:\n", b.Name)
		for _, inst := range b.Code {
			fmt.Fprintf(&sb, "\t%s\n", inst)
		}
		fmt.Fprintf(&sb, "\t%s\n", b.Term)
	}
	return sb.String()
}

// Tree renders the control-flow graph rooted at the entry block. Edges to
// blocks already on the path are printed as back-references instead of
// recursing.
func (fn *Function) Tree() treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fn.Name)
	if len(fn.Blocks) == 0 {
		return tree
	}
	seen := make(map[*Block]bool)
	addBlockNode(tree, fn.Blocks[0], "", seen)
	return tree
}

func addBlockNode(parent treeprint.Tree, b *Block, edge string, seen map[*Block]bool) {
	value := blockValue(b)
	if seen[b] {
		if edge != "" {
			parent.AddMetaNode(edge, "-> "+b.Name)
		} else {
			parent.AddNode("-> " + b.Name)
		}
		return
	}
	seen[b] = true

	var node treeprint.Tree
	if edge != "" {
		node = parent.AddMetaBranch(edge, value)
	} else {
		node = parent.AddBranch(value)
	}

	switch b.Term.Kind {
	case TermJump:
		addBlockNode(node, b.Term.Then, "jump", seen)
	case TermBranch:
		addBlockNode(node, b.Term.Then, b.Term.Pred.String(), seen)
		addBlockNode(node, b.Term.Else, "else", seen)
	}
}

func blockValue(b *Block) string {
	return fmt.Sprintf("%s (%d instructions)", b.Name, len(b.Code))
}

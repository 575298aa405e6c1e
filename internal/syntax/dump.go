package syntax

import (
	"fmt"
	"strings"
)

// Dump renders el as an indented kind tree, with token text quoted.
func Dump(el Element) string {
	var sb strings.Builder
	dump(&sb, el, 0)
	return sb.String()
}

func dump(sb *strings.Builder, el Element, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	switch e := el.(type) {
	case *Token:
		fmt.Fprintf(sb, "%s %q\n", e.Kind(), e.Text())
	case *Node:
		sb.WriteString(e.Kind().String())
		sb.WriteString("\n")
		for _, c := range e.children {
			dump(sb, c, depth+1)
		}
	}
}

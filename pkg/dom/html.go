package dom

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// OuterHTML returns an HTML-ish representation of the node and its
// subtree: sorted attributes, escaped text, handlers omitted. It is a
// debug and assertion format, not a full HTML serializer; the
// first-paint serializer lives in pkg/render.
func (n *MemoryNode) OuterHTML() string {
	var b strings.Builder
	n.writeHTML(&b)
	return b.String()
}

func (n *MemoryNode) writeHTML(b *strings.Builder) {
	if n.text {
		b.WriteString(html.EscapeString(n.content))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.tag)

	for _, key := range sortedPropKeys(n.props) {
		value := n.props[key]
		switch v := value.(type) {
		case nil:
			continue
		case bool:
			if v {
				b.WriteByte(' ')
				b.WriteString(key)
			}
			continue
		}
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(fmt.Sprintf("%v", value)))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	for _, child := range n.children {
		child.writeHTML(b)
	}

	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteByte('>')
}

func sortedPropKeys(props map[string]any) []string {
	if len(props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

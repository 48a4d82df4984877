package render

import "strings"

// escapeHTML escapes text for inclusion in HTML content. Special
// characters become entity references so rendered state can never be
// interpreted as markup.
func escapeHTML(s string) string {
	return escape(s, false)
}

// escapeAttr escapes text for inclusion in attribute values. On top of
// the content entities it escapes whitespace control characters that
// could break attribute parsing.
func escapeAttr(s string) string {
	return escape(s, true)
}

func escape(s string, attr bool) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			if attr {
				buf.WriteString("&#10;")
				continue
			}
			buf.WriteRune(r)
		case '\r':
			if attr {
				buf.WriteString("&#13;")
				continue
			}
			buf.WriteRune(r)
		case '\t':
			if attr {
				buf.WriteString("&#9;")
				continue
			}
			buf.WriteRune(r)
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

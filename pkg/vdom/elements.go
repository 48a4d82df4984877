package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element node with the given tag and arguments.
// Arguments can be: nil (skipped), Attr, []Attr, Attrs, EventHandler,
// *VNode, []*VNode, []any, or a scalar (string or number, promoted to
// a text leaf). Unknown argument types are silently ignored.
func El(tag string, args ...any) *VNode {
	return newElement(tag, args)
}

func newElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Attrs:    make(Attrs),
		Children: make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes and children)
			continue

		case Attr:
			setAttr(node, v.Key, v.Value)

		case []Attr:
			for _, a := range v {
				setAttr(node, a.Key, a.Value)
			}

		case Attrs:
			for key, value := range v {
				setAttr(node, key, value)
			}

		case EventHandler:
			node.Attrs[v.Event] = v.Handler

		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case []any:
			for _, item := range v {
				appendChildValue(node, item)
			}

		case string:
			// Shorthand for a text leaf
			node.Children = append(node.Children, Text(v))

		case int, int64, int32, uint, uint64, float64, float32:
			node.Children = append(node.Children, Text(v))
		}
	}

	return node
}

// setAttr stores one attribute, routing the reserved "children" key
// into the child list instead of the attribute map.
func setAttr(n *VNode, key string, value any) {
	if key == "" {
		return
	}
	if key == "children" {
		appendChildValue(n, value)
		return
	}
	n.Attrs[key] = value
}

// appendChildValue appends a child-position value of any supported
// shape: a node, a slice of nodes, a mixed slice, or a scalar.
func appendChildValue(n *VNode, value any) {
	switch v := value.(type) {
	case nil:
	case *VNode:
		if v != nil {
			n.Children = append(n.Children, v)
		}
	case []*VNode:
		for _, child := range v {
			if child != nil {
				n.Children = append(n.Children, child)
			}
		}
	case []any:
		for _, item := range v {
			appendChildValue(n, item)
		}
	case string:
		n.Children = append(n.Children, Text(v))
	case int, int64, int32, uint, uint64, float64, float32:
		n.Children = append(n.Children, Text(v))
	}
}

// Document structure elements

func Html(args ...any) *VNode  { return newElement("html", args) }
func Head(args ...any) *VNode  { return newElement("head", args) }
func Body(args ...any) *VNode  { return newElement("body", args) }
func Title(args ...any) *VNode { return newElement("title", args) }
func Meta(args ...any) *VNode  { return newElement("meta", args) }
func Link(args ...any) *VNode  { return newElement("link", args) }

// Content sectioning elements

func Header(args ...any) *VNode  { return newElement("header", args) }
func Footer(args ...any) *VNode  { return newElement("footer", args) }
func Main(args ...any) *VNode    { return newElement("main", args) }
func Nav(args ...any) *VNode     { return newElement("nav", args) }
func Section(args ...any) *VNode { return newElement("section", args) }
func Article(args ...any) *VNode { return newElement("article", args) }
func Aside(args ...any) *VNode   { return newElement("aside", args) }
func H1(args ...any) *VNode      { return newElement("h1", args) }
func H2(args ...any) *VNode      { return newElement("h2", args) }
func H3(args ...any) *VNode      { return newElement("h3", args) }
func H4(args ...any) *VNode      { return newElement("h4", args) }
func H5(args ...any) *VNode      { return newElement("h5", args) }
func H6(args ...any) *VNode      { return newElement("h6", args) }

// Text content elements

func Div(args ...any) *VNode        { return newElement("div", args) }
func P(args ...any) *VNode          { return newElement("p", args) }
func Span(args ...any) *VNode       { return newElement("span", args) }
func Pre(args ...any) *VNode        { return newElement("pre", args) }
func Blockquote(args ...any) *VNode { return newElement("blockquote", args) }
func Ul(args ...any) *VNode         { return newElement("ul", args) }
func Ol(args ...any) *VNode         { return newElement("ol", args) }
func Li(args ...any) *VNode         { return newElement("li", args) }
func Hr(args ...any) *VNode         { return newElement("hr", args) }

// Inline text semantics

func A(args ...any) *VNode      { return newElement("a", args) }
func Strong(args ...any) *VNode { return newElement("strong", args) }
func Em(args ...any) *VNode     { return newElement("em", args) }
func B(args ...any) *VNode      { return newElement("b", args) }
func I(args ...any) *VNode      { return newElement("i", args) }
func Small(args ...any) *VNode  { return newElement("small", args) }
func Code(args ...any) *VNode   { return newElement("code", args) }
func Kbd(args ...any) *VNode    { return newElement("kbd", args) }
func Br(args ...any) *VNode     { return newElement("br", args) }

// Media elements

func Img(args ...any) *VNode    { return newElement("img", args) }
func Audio(args ...any) *VNode  { return newElement("audio", args) }
func Video(args ...any) *VNode  { return newElement("video", args) }
func Source(args ...any) *VNode { return newElement("source", args) }
func Canvas(args ...any) *VNode { return newElement("canvas", args) }
func Svg(args ...any) *VNode    { return newElement("svg", args) }

// Form elements

func Form(args ...any) *VNode     { return newElement("form", args) }
func Input(args ...any) *VNode    { return newElement("input", args) }
func Textarea(args ...any) *VNode { return newElement("textarea", args) }
func Button(args ...any) *VNode   { return newElement("button", args) }
func Select(args ...any) *VNode   { return newElement("select", args) }
func Option(args ...any) *VNode   { return newElement("option", args) }
func Optgroup(args ...any) *VNode { return newElement("optgroup", args) }
func Label(args ...any) *VNode    { return newElement("label", args) }
func Fieldset(args ...any) *VNode { return newElement("fieldset", args) }
func Legend(args ...any) *VNode   { return newElement("legend", args) }
func Datalist(args ...any) *VNode { return newElement("datalist", args) }
func Output(args ...any) *VNode   { return newElement("output", args) }
func Progress(args ...any) *VNode { return newElement("progress", args) }
func Meter(args ...any) *VNode    { return newElement("meter", args) }

// Table elements

func Table(args ...any) *VNode { return newElement("table", args) }
func Thead(args ...any) *VNode { return newElement("thead", args) }
func Tbody(args ...any) *VNode { return newElement("tbody", args) }
func Tfoot(args ...any) *VNode { return newElement("tfoot", args) }
func Tr(args ...any) *VNode    { return newElement("tr", args) }
func Th(args ...any) *VNode    { return newElement("th", args) }
func Td(args ...any) *VNode    { return newElement("td", args) }
func Col(args ...any) *VNode   { return newElement("col", args) }

// Interactive elements

func Details(args ...any) *VNode { return newElement("details", args) }
func Summary(args ...any) *VNode { return newElement("summary", args) }
func Dialog(args ...any) *VNode  { return newElement("dialog", args) }

// This file re-exports the vdom element constructors.
package el

import "github.com/graft-dev/graft/pkg/vdom"

// El creates an element node with an arbitrary tag.
func El(tag string, args ...any) *VNode { return vdom.El(tag, args...) }

// IsVoidElement reports whether tag names a void element.
func IsVoidElement(tag string) bool { return vdom.IsVoidElement(tag) }

// Document structure elements

func Html(args ...any) *VNode  { return vdom.Html(args...) }
func Head(args ...any) *VNode  { return vdom.Head(args...) }
func Body(args ...any) *VNode  { return vdom.Body(args...) }
func Title(args ...any) *VNode { return vdom.Title(args...) }
func Meta(args ...any) *VNode  { return vdom.Meta(args...) }
func Link(args ...any) *VNode  { return vdom.Link(args...) }

// Content sectioning elements

func Header(args ...any) *VNode  { return vdom.Header(args...) }
func Footer(args ...any) *VNode  { return vdom.Footer(args...) }
func Main(args ...any) *VNode    { return vdom.Main(args...) }
func Nav(args ...any) *VNode     { return vdom.Nav(args...) }
func Section(args ...any) *VNode { return vdom.Section(args...) }
func Article(args ...any) *VNode { return vdom.Article(args...) }
func Aside(args ...any) *VNode   { return vdom.Aside(args...) }
func H1(args ...any) *VNode      { return vdom.H1(args...) }
func H2(args ...any) *VNode      { return vdom.H2(args...) }
func H3(args ...any) *VNode      { return vdom.H3(args...) }
func H4(args ...any) *VNode      { return vdom.H4(args...) }
func H5(args ...any) *VNode      { return vdom.H5(args...) }
func H6(args ...any) *VNode      { return vdom.H6(args...) }

// Text content elements

func Div(args ...any) *VNode        { return vdom.Div(args...) }
func P(args ...any) *VNode          { return vdom.P(args...) }
func Span(args ...any) *VNode       { return vdom.Span(args...) }
func Pre(args ...any) *VNode        { return vdom.Pre(args...) }
func Blockquote(args ...any) *VNode { return vdom.Blockquote(args...) }
func Ul(args ...any) *VNode         { return vdom.Ul(args...) }
func Ol(args ...any) *VNode         { return vdom.Ol(args...) }
func Li(args ...any) *VNode         { return vdom.Li(args...) }
func Hr(args ...any) *VNode         { return vdom.Hr(args...) }

// Inline text semantics

func A(args ...any) *VNode      { return vdom.A(args...) }
func Strong(args ...any) *VNode { return vdom.Strong(args...) }
func Em(args ...any) *VNode     { return vdom.Em(args...) }
func B(args ...any) *VNode      { return vdom.B(args...) }
func I(args ...any) *VNode      { return vdom.I(args...) }
func Small(args ...any) *VNode  { return vdom.Small(args...) }
func Code(args ...any) *VNode   { return vdom.Code(args...) }
func Kbd(args ...any) *VNode    { return vdom.Kbd(args...) }
func Br(args ...any) *VNode     { return vdom.Br(args...) }

// Media elements

func Img(args ...any) *VNode    { return vdom.Img(args...) }
func Audio(args ...any) *VNode  { return vdom.Audio(args...) }
func Video(args ...any) *VNode  { return vdom.Video(args...) }
func Source(args ...any) *VNode { return vdom.Source(args...) }
func Canvas(args ...any) *VNode { return vdom.Canvas(args...) }
func Svg(args ...any) *VNode    { return vdom.Svg(args...) }

// Form elements

func Form(args ...any) *VNode     { return vdom.Form(args...) }
func Input(args ...any) *VNode    { return vdom.Input(args...) }
func Textarea(args ...any) *VNode { return vdom.Textarea(args...) }
func Button(args ...any) *VNode   { return vdom.Button(args...) }
func Select(args ...any) *VNode   { return vdom.Select(args...) }
func Option(args ...any) *VNode   { return vdom.Option(args...) }
func Optgroup(args ...any) *VNode { return vdom.Optgroup(args...) }
func Label(args ...any) *VNode    { return vdom.Label(args...) }
func Fieldset(args ...any) *VNode { return vdom.Fieldset(args...) }
func Legend(args ...any) *VNode   { return vdom.Legend(args...) }
func Datalist(args ...any) *VNode { return vdom.Datalist(args...) }
func Output(args ...any) *VNode   { return vdom.Output(args...) }
func Progress(args ...any) *VNode { return vdom.Progress(args...) }
func Meter(args ...any) *VNode    { return vdom.Meter(args...) }

// Table elements

func Table(args ...any) *VNode { return vdom.Table(args...) }
func Thead(args ...any) *VNode { return vdom.Thead(args...) }
func Tbody(args ...any) *VNode { return vdom.Tbody(args...) }
func Tfoot(args ...any) *VNode { return vdom.Tfoot(args...) }
func Tr(args ...any) *VNode    { return vdom.Tr(args...) }
func Th(args ...any) *VNode    { return vdom.Th(args...) }
func Td(args ...any) *VNode    { return vdom.Td(args...) }
func Col(args ...any) *VNode   { return vdom.Col(args...) }

// Interactive elements

func Details(args ...any) *VNode { return vdom.Details(args...) }
func Summary(args ...any) *VNode { return vdom.Summary(args...) }
func Dialog(args ...any) *VNode  { return vdom.Dialog(args...) }

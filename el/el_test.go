package el

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/graft-dev/graft/pkg/vdom"
)

var (
	_ vdom.VNode        = VNode{}
	_ vdom.VKind        = VKind(0)
	_ vdom.Attrs        = Attrs{}
	_ vdom.Attr         = Attr{}
	_ vdom.EventHandler = EventHandler{}
)

func TestElementConstructorsMatchVDOM(t *testing.T) {
	args := []any{
		vdom.ID("root"),
		vdom.Class("one", "two"),
		vdom.OnClick("noop"),
		"hello",
		vdom.Span("child"),
	}

	got := Div(args...)
	want := vdom.Div(args...)

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Div() mismatch:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestElementNamesMatchVDOM(t *testing.T) {
	cases := []struct {
		name string
		got  *VNode
		want *vdom.VNode
	}{
		{"html", Html(), vdom.Html()},
		{"main", Main("content"), vdom.Main("content")},
		{"ul", Ul(Li("a"), Li("b")), vdom.Ul(vdom.Li("a"), vdom.Li("b"))},
		{"td", Td("cell"), vdom.Td("cell")},
		{"img", Img(Src("/a.png"), Alt("a")), vdom.Img(vdom.Src("/a.png"), vdom.Alt("a"))},
		{"dialog", Dialog("hi"), vdom.Dialog("hi")},
		{"custom", El("x-widget"), vdom.El("x-widget")},
	}

	for _, tc := range cases {
		if !reflect.DeepEqual(tc.got, tc.want) {
			t.Fatalf("%s element mismatch:\n got: %#v\nwant: %#v", tc.name, tc.got, tc.want)
		}
	}
}

func TestIsVoidElement(t *testing.T) {
	if !IsVoidElement("br") {
		t.Fatalf("IsVoidElement(\"br\") expected true")
	}
	if IsVoidElement("div") {
		t.Fatalf("IsVoidElement(\"div\") expected false")
	}
}

func TestTextHelpersMatchVDOM(t *testing.T) {
	if !reflect.DeepEqual(Text("hi"), vdom.Text("hi")) {
		t.Fatalf("Text() mismatch")
	}
	if !reflect.DeepEqual(Text(42), vdom.Text(42)) {
		t.Fatalf("Text(int) mismatch")
	}
	if !reflect.DeepEqual(Textf("hi %d", 2), vdom.Textf("hi %d", 2)) {
		t.Fatalf("Textf() mismatch")
	}
}

func TestConditionalHelpers(t *testing.T) {
	node := Text("ok")

	if If(true, node) != node {
		t.Fatalf("If(true) should return node")
	}
	if If(false, node) != nil {
		t.Fatalf("If(false) should return nil")
	}
	if IfElse(true, node, nil) != node {
		t.Fatalf("IfElse(true) should return ifTrue")
	}
	if IfElse(false, node, nil) != nil {
		t.Fatalf("IfElse(false) should return ifFalse")
	}
	if Unless(false, node) != node {
		t.Fatalf("Unless(false) should return node")
	}
	if Unless(true, node) != nil {
		t.Fatalf("Unless(true) should return nil")
	}

	calls := 0
	result := When(false, func() *VNode {
		calls++
		return node
	})
	if result != nil || calls != 0 {
		t.Fatalf("When(false) should not call fn")
	}
	result = When(true, func() *VNode {
		calls++
		return node
	})
	if result != node || calls != 1 {
		t.Fatalf("When(true) should call fn once")
	}
}

func TestRangeHelper(t *testing.T) {
	items := []string{"a", "b", "c"}
	got := Range(items, func(item string, index int) *VNode {
		return Textf("%s:%d", item, index)
	})
	if len(got) != len(items) {
		t.Fatalf("Range() length mismatch: got %d want %d", len(got), len(items))
	}
	for i, node := range got {
		want := fmt.Sprintf("%s:%d", items[i], i)
		if node == nil || node.Kind != vdom.KindText || node.Value != want {
			t.Fatalf("Range() node mismatch at %d: got %#v want text %q", i, node, want)
		}
	}
}

func TestRepeatHelper(t *testing.T) {
	got := Repeat(3, func(i int) *VNode {
		return Textf("item-%d", i)
	})
	if len(got) != 3 {
		t.Fatalf("Repeat() length mismatch: got %d want 3", len(got))
	}
	for i, node := range got {
		want := fmt.Sprintf("item-%d", i)
		if node == nil || node.Kind != vdom.KindText || node.Value != want {
			t.Fatalf("Repeat() node mismatch at %d: got %#v want text %q", i, node, want)
		}
	}
}

func TestAttributeHelpersMatchVDOM(t *testing.T) {
	cases := []struct {
		name string
		got  Attr
		want vdom.Attr
	}{
		{"AttrOf", AttrOf("k", "v"), vdom.AttrOf("k", "v")},
		{"ID", ID("main"), vdom.ID("main")},
		{"Class", Class("a", "b"), vdom.Class("a", "b")},
		{"Data", Data("key", "value"), vdom.Data("key", "value")},
		{"AriaHidden", AriaHidden(true), vdom.AriaHidden(true)},
		{"Hidden", Hidden(), vdom.Hidden()},
		{"Disabled", Disabled(), vdom.Disabled()},
		{"ClassIfFalse", ClassIf(false, "on"), vdom.ClassIf(false, "on")},
		{"AttrIfTrue", AttrIf(true, "k", 1), vdom.AttrIf(true, "k", 1)},
	}

	for _, tc := range cases {
		if !reflect.DeepEqual(tc.got, tc.want) {
			t.Fatalf("%s attribute mismatch:\n got: %#v\nwant: %#v", tc.name, tc.got, tc.want)
		}
	}
}

func TestEventHelpersMatchVDOM(t *testing.T) {
	cases := []struct {
		name string
		got  EventHandler
		want vdom.EventHandler
	}{
		{"On", On("custom", "noop"), vdom.On("custom", "noop")},
		{"OnClick", OnClick("noop"), vdom.OnClick("noop")},
		{"OnInput", OnInput("noop"), vdom.OnInput("noop")},
		{"OnSubmit", OnSubmit("noop"), vdom.OnSubmit("noop")},
		{"OnLoad", OnLoad("noop"), vdom.OnLoad("noop")},
	}

	for _, tc := range cases {
		if !reflect.DeepEqual(tc.got, tc.want) {
			t.Fatalf("%s event mismatch:\n got: %#v\nwant: %#v", tc.name, tc.got, tc.want)
		}
	}
}

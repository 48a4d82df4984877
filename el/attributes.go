// This file re-exports the vdom attribute helpers.
package el

import "github.com/graft-dev/graft/pkg/vdom"

// AttrOf creates an arbitrary attribute.
func AttrOf(key string, value any) Attr { return vdom.AttrOf(key, value) }

// Global attributes

func ID(id string) Attr            { return vdom.ID(id) }
func Class(classes ...string) Attr { return vdom.Class(classes...) }
func StyleAttr(style string) Attr  { return vdom.StyleAttr(style) }
func Data(key, value string) Attr  { return vdom.Data(key, value) }
func TitleAttr(title string) Attr  { return vdom.TitleAttr(title) }
func Role(role string) Attr        { return vdom.Role(role) }
func AriaLabel(label string) Attr  { return vdom.AriaLabel(label) }
func AriaHidden(hidden bool) Attr  { return vdom.AriaHidden(hidden) }
func TabIndex(index int) Attr      { return vdom.TabIndex(index) }
func Hidden() Attr                 { return vdom.Hidden() }
func Lang(lang string) Attr        { return vdom.Lang(lang) }

// Link attributes

func Href(url string) Attr      { return vdom.Href(url) }
func Target(target string) Attr { return vdom.Target(target) }
func Rel(rel string) Attr       { return vdom.Rel(rel) }

// Form and input attributes

func Name(name string) Attr        { return vdom.Name(name) }
func Value(value string) Attr      { return vdom.Value(value) }
func Type(t string) Attr           { return vdom.Type(t) }
func Placeholder(text string) Attr { return vdom.Placeholder(text) }
func Disabled() Attr               { return vdom.Disabled() }
func Readonly() Attr               { return vdom.Readonly() }
func Required() Attr               { return vdom.Required() }
func Checked() Attr                { return vdom.Checked() }
func Selected() Attr               { return vdom.Selected() }
func Autofocus() Attr              { return vdom.Autofocus() }
func Min(value string) Attr        { return vdom.Min(value) }
func Max(value string) Attr        { return vdom.Max(value) }
func Step(value string) Attr       { return vdom.Step(value) }
func Rows(n int) Attr              { return vdom.Rows(n) }
func Cols(n int) Attr              { return vdom.Cols(n) }
func Action(url string) Attr       { return vdom.Action(url) }
func Method(method string) Attr    { return vdom.Method(method) }
func For(id string) Attr           { return vdom.For(id) }

// Media attributes

func Src(url string) Attr  { return vdom.Src(url) }
func Alt(text string) Attr { return vdom.Alt(text) }
func Width(w int) Attr     { return vdom.Width(w) }
func Height(h int) Attr    { return vdom.Height(h) }

// Conditional helpers

func ClassIf(cond bool, classes ...string) Attr    { return vdom.ClassIf(cond, classes...) }
func AttrIf(cond bool, key string, value any) Attr { return vdom.AttrIf(cond, key, value) }

// This file re-exports the vdom tree utilities.
package el

import "github.com/graft-dev/graft/pkg/vdom"

func Text(value any) *VNode                   { return vdom.Text(value) }
func Textf(format string, args ...any) *VNode { return vdom.Textf(format, args...) }

func If(condition bool, node *VNode) *VNode                { return vdom.If(condition, node) }
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode { return vdom.IfElse(condition, ifTrue, ifFalse) }
func When(condition bool, fn func() *VNode) *VNode         { return vdom.When(condition, fn) }
func Unless(condition bool, node *VNode) *VNode            { return vdom.Unless(condition, node) }

func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	return vdom.Range(items, fn)
}

func Repeat(n int, fn func(i int) *VNode) []*VNode {
	return vdom.Repeat(n, fn)
}

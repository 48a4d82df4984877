package vdom

import "strings"

// attr creates an attribute with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// AttrOf creates an arbitrary attribute.
func AttrOf(key string, value any) Attr { return attr(key, value) }

// Global attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute.
func StyleAttr(style string) Attr { return attr("style", style) }

// Data sets a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// TitleAttr sets the title attribute (tooltip).
func TitleAttr(title string) Attr { return attr("title", title) }

// Role sets the ARIA role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", hidden) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return attr("tabindex", index) }

// Hidden marks an element as hidden.
func Hidden() Attr { return attr("hidden", true) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Link attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Target sets the target attribute.
func Target(target string) Attr { return attr("target", target) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// Form and input attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute.
func Value(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Disabled marks an element as disabled.
func Disabled() Attr { return attr("disabled", true) }

// Readonly marks an input as read-only.
func Readonly() Attr { return attr("readonly", true) }

// Required marks an input as required.
func Required() Attr { return attr("required", true) }

// Checked marks a checkbox or radio as checked.
func Checked() Attr { return attr("checked", true) }

// Selected marks an option as selected.
func Selected() Attr { return attr("selected", true) }

// Autofocus requests focus on page load.
func Autofocus() Attr { return attr("autofocus", true) }

// Min sets the min attribute.
func Min(value string) Attr { return attr("min", value) }

// Max sets the max attribute.
func Max(value string) Attr { return attr("max", value) }

// Step sets the step attribute.
func Step(value string) Attr { return attr("step", value) }

// Rows sets the rows attribute of a textarea.
func Rows(n int) Attr { return attr("rows", n) }

// Cols sets the cols attribute of a textarea.
func Cols(n int) Attr { return attr("cols", n) }

// Action sets the action attribute of a form.
func Action(url string) Attr { return attr("action", url) }

// Method sets the method attribute of a form.
func Method(method string) Attr { return attr("method", method) }

// For sets the for attribute of a label.
func For(id string) Attr { return attr("for", id) }

// Media attributes

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

// Width sets the width attribute.
func Width(w int) Attr { return attr("width", w) }

// Height sets the height attribute.
func Height(h int) Attr { return attr("height", h) }

// Conditional helpers

// ClassIf returns a class attribute when cond is true, otherwise an
// empty attribute that constructors skip.
func ClassIf(cond bool, classes ...string) Attr {
	if cond {
		return Class(classes...)
	}
	return Attr{}
}

// AttrIf returns the attribute when cond is true, otherwise an empty
// attribute that constructors skip.
func AttrIf(cond bool, key string, value any) Attr {
	if cond {
		return attr(key, value)
	}
	return Attr{}
}

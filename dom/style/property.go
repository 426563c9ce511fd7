package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strings"

	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'webtree.render'
func tracer() tracing.Trace {
	return tracing.Select("webtree.render")
}

// Property is a raw value for a CSS property. For example, with
//
//     display: none
//
// a property value of "none" is set. The main purpose of wrapping
// the raw string value into type Property is to provide a set of
// convenient helpers.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

// Values of the display property we distinguish.
const (
	DisplayNone        Property = "none"
	DisplayBlock       Property = "block"
	DisplayBlockInline Property = "block-inline"
	DisplayInline      Property = "inline"
)

func (p Property) String() string {
	return string(p)
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key   string
	Value Property
}

// Declarations is a list of CSS declarations, in source order.
type Declarations []KeyValue

// Get returns the value of the last declaration for key, as CSS
// lets later declarations win.
func (decls Declarations) Get(key string) (Property, bool) {
	for i := len(decls) - 1; i >= 0; i-- {
		if decls[i].Key == key {
			return decls[i].Value, true
		}
	}
	return NullStyle, false
}

// ParseInline parses the content of an HTML style attribute, e.g.
//
//    display:none; color: red
//
// Keys and values are converted to lower case. Malformed input results
// in an empty list, never in an error for the caller to handle.
func ParseInline(attr string) Declarations {
	if strings.TrimSpace(attr) == "" {
		return nil
	}
	decls, err := parser.ParseDeclarations(attr)
	if err != nil {
		tracer().Debugf("styling: ignoring malformed style attribute %q: %v", attr, err)
		return nil
	}
	r := make(Declarations, 0, len(decls))
	for _, d := range decls {
		r = append(r, KeyValue{
			Key:   strings.ToLower(strings.TrimSpace(d.Property)),
			Value: Property(strings.ToLower(strings.TrimSpace(d.Value))),
		})
	}
	return r
}

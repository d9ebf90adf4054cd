package entities

import (
	"fmt"
	"strings"
)

// LocatorKind is the predicate family a strategy matches with
type LocatorKind string

const (
	LocateByAttribute LocatorKind = "attribute"
	LocateByText      LocatorKind = "text"
	LocateByPosition  LocatorKind = "position"
	LocateByLabel     LocatorKind = "label"
)

// LocatorStrategy describes one way of finding a UI element
type LocatorStrategy struct {
	Kind   LocatorKind `json:"kind"`
	Tag    string      `json:"tag,omitempty"`    // element tag, any element when empty
	Attr   string      `json:"attr,omitempty"`   // attribute name for attribute strategies
	Values []string    `json:"values,omitempty"` // every value must match
	Exact  bool        `json:"exact,omitempty"`  // equality instead of substring
	Nested bool        `json:"nested,omitempty"` // match text of descendants too
	Path   string      `json:"path,omitempty"`   // structural XPath for position strategies
	Child  string      `json:"child,omitempty"`  // descend into this tag after matching
}

// AttrContains - element whose attribute contains value
func AttrContains(tag, attr, value string) LocatorStrategy {
	return LocatorStrategy{Kind: LocateByAttribute, Tag: tag, Attr: attr, Values: []string{value}}
}

// AttrEquals - element whose attribute equals value
func AttrEquals(tag, attr, value string) LocatorStrategy {
	return LocatorStrategy{Kind: LocateByAttribute, Tag: tag, Attr: attr, Values: []string{value}, Exact: true}
}

// TextContains - element whose own text contains every value
func TextContains(tag string, values ...string) LocatorStrategy {
	return LocatorStrategy{Kind: LocateByText, Tag: tag, Values: values}
}

// NestedTextContains - element whose full text, descendants included, contains every value
func NestedTextContains(tag string, values ...string) LocatorStrategy {
	return LocatorStrategy{Kind: LocateByText, Tag: tag, Values: values, Nested: true}
}

// Position - element at a structural position expressed as XPath
func Position(path string) LocatorStrategy {
	return LocatorStrategy{Kind: LocateByPosition, Path: path}
}

// Label - form control placed next to a label or table cell with this text
func Label(text string) LocatorStrategy {
	return LocatorStrategy{Kind: LocateByLabel, Values: []string{text}}
}

// Within - returns a copy that descends into the first child with the given tag
func (s LocatorStrategy) Within(child string) LocatorStrategy {
	s.Child = child
	return s
}

// XPath - compiles the strategy into a single XPath expression
func (s LocatorStrategy) XPath() string {
	var expr string
	switch s.Kind {
	case LocateByAttribute:
		expr = fmt.Sprintf("//%s[%s]", s.tag(), s.predicate("@"+s.Attr))
	case LocateByText:
		target := "text()"
		if s.Nested {
			target = "."
		}
		expr = fmt.Sprintf("//%s[%s]", s.tag(), s.predicate(target))
	case LocateByPosition:
		expr = s.Path
	case LocateByLabel:
		label := ""
		if len(s.Values) > 0 {
			label = xpathLiteral(s.Values[0])
		}
		control := "*[self::input or self::select or self::textarea]"
		expr = fmt.Sprintf("//td[contains(text(), %s)]/following-sibling::td//%s | //label[contains(text(), %s)]/following-sibling::%s",
			label, control, label, control)
	default:
		return ""
	}

	if s.Child != "" {
		expr = fmt.Sprintf("(%s)//%s", expr, s.Child)
	}
	return expr
}

// String - human readable description used in diagnostics
func (s LocatorStrategy) String() string {
	var b strings.Builder
	b.WriteString(string(s.Kind))
	b.WriteString("(")
	switch s.Kind {
	case LocateByPosition:
		b.WriteString(s.Path)
	case LocateByLabel:
		b.WriteString(strings.Join(quoteAll(s.Values), " and "))
	default:
		b.WriteString(s.tag())
		if s.Attr != "" {
			b.WriteString(" @" + s.Attr)
		}
		if s.Exact {
			b.WriteString(" = ")
		} else {
			b.WriteString(" ~ ")
		}
		b.WriteString(strings.Join(quoteAll(s.Values), " and "))
	}
	if s.Child != "" {
		b.WriteString(" > " + s.Child)
	}
	b.WriteString(")")
	return b.String()
}

func (s LocatorStrategy) tag() string {
	if s.Tag == "" {
		return "*"
	}
	return s.Tag
}

func (s LocatorStrategy) predicate(target string) string {
	if len(s.Values) == 0 {
		return target
	}
	parts := make([]string, 0, len(s.Values))
	for _, v := range s.Values {
		if s.Exact {
			parts = append(parts, fmt.Sprintf("%s=%s", target, xpathLiteral(v)))
		} else {
			parts = append(parts, fmt.Sprintf("contains(%s, %s)", target, xpathLiteral(v)))
		}
	}
	return strings.Join(parts, " and ")
}

// xpathLiteral - quotes a string for XPath 1.0, which has no escape syntax
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}

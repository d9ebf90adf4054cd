package sessiontest

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"

	"dialysis_autofill/domain/entities"
)

// FindInMarkup resolves strategies by evaluating their XPath against markup.
// The first node in document order wins, as in the browser session.
func FindInMarkup(markup string) (ResolveFunc, error) {
	doc, err := htmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	return func(s entities.LocatorStrategy) (*Element, bool) {
		node, err := htmlquery.Query(doc, s.XPath())
		if err != nil || node == nil {
			return nil, false
		}

		el := &Element{Name: htmlquery.SelectAttr(node, "name")}
		if node.Data == "select" {
			el.Options = []string{}
			for _, opt := range htmlquery.Find(node, ".//option") {
				el.Options = append(el.Options, strings.TrimSpace(htmlquery.InnerText(opt)))
			}
		}
		return el, true
	}, nil
}

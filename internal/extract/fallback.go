package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/uiatlas/uiatlas/internal/model"
)

// StaticLinks extracts anchor links from raw HTML without a browser.
//
// This is the degraded path for pages where script evaluation failed but
// a DOM snapshot survived. Only navigate actions can be recovered
// statically; visibility and toggle semantics need a live page.
//
// Design decision: We use golang.org/x/net/html rather than regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
func StaticLinks(content string) []model.Action {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil
	}

	var actions []model.Action
	seen := make(map[string]struct{})

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); usableHref(href) {
				a := model.Action{
					Type:  model.ActionNavigate,
					Label: model.NormalizeLabel(nodeText(n)),
					Href:  strings.TrimSpace(href),
				}
				if _, ok := seen[a.Key()]; !ok {
					seen[a.Key()] = struct{}{}
					actions = append(actions, a)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return actions
}

// usableHref filters hrefs that never lead to a crawlable page.
func usableHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return false
	}
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(href, scheme) {
			return false
		}
	}
	return true
}

// nodeText collects the text content of a node's subtree.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

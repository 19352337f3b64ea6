package portal

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// loginForm is the parsed login form of a portal page: its action URL
// and the server-issued hidden fields (one-time tokens live here).
type loginForm struct {
	// Action is the form action attribute, commonly a relative URL that
	// must be resolved against the page URL.
	Action string

	// Hidden maps hidden input names to their server-issued values.
	Hidden map[string]string
}

// parseLoginForm parses an HTML page and returns its single login form.
//
// Exactly one form is required: zero means the vendor page structure
// changed (or we were handed something that is not a login page), and
// more than one makes "the login form" ambiguous. Both are protocol
// mismatches for the caller to classify.
//
// Design decision: We use golang.org/x/net/html rather than regex
// because it correctly handles the malformed HTML that portal gateways
// are notorious for serving.
func parseLoginForm(r io.Reader) (*loginForm, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse portal page: %w", err)
	}

	var forms []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "form" {
			forms = append(forms, n)
			// Nested forms are invalid HTML; do not descend.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(forms) != 1 {
		return nil, fmt.Errorf("expected exactly one login form, found %d", len(forms))
	}

	form := &loginForm{
		Action: attr(forms[0], "action"),
		Hidden: make(map[string]string),
	}

	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" {
			if strings.EqualFold(attr(n, "type"), "hidden") {
				if name := attr(n, "name"); name != "" {
					form.Hidden[name] = attr(n, "value")
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(forms[0])

	return form, nil
}

// attr returns the value of the named attribute, or "" if absent.
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

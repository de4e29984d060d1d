package indexer

import (
	"strings"

	"golang.org/x/net/html"
)

// extracted holds the fields pulled out of a crawled page's raw HTML.
type extracted struct {
	title           string
	description     string
	body            string
	keywords        []string
	microformatTags []string
	ldJSON          []string // raw contents of <script type="application/ld+json"> blocks
}

var skipBodyTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

// extractHTML walks an HTML document's node tree once, collecting the title,
// meta description/keywords, microformat (class=) tags, and the visible body
// text in document order. Malformed HTML is tolerated: html.Parse repairs it
// the way a browser would, so partial documents still yield a title/body.
func extractHTML(doc string) extracted {
	var ex extracted
	node, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return ex
	}

	var body strings.Builder
	var walk func(n *html.Node, inBody bool)
	walk = func(n *html.Node, inBody bool) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "title":
				if ex.title == "" {
					ex.title = strings.TrimSpace(textOf(n))
				}
				return
			case "meta":
				applyMeta(n, &ex)
				return
			case "body":
				inBody = true
			case "script":
				if strings.EqualFold(attr(n, "type"), "application/ld+json") {
					if text := strings.TrimSpace(textOf(n)); text != "" {
						ex.ldJSON = append(ex.ldJSON, text)
					}
				}
				return
			}
			if skipBodyTags[n.Data] {
				return
			}
			if class := attr(n, "class"); class != "" && looksLikeMicroformat(class) {
				ex.microformatTags = append(ex.microformatTags, class)
			}
		case html.TextNode:
			if inBody {
				text := strings.TrimSpace(n.Data)
				if text != "" {
					body.WriteString(text)
					body.WriteByte(' ')
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inBody)
		}
	}
	walk(node, false)

	ex.body = body.String()
	return ex
}

func applyMeta(n *html.Node, ex *extracted) {
	name := strings.ToLower(attr(n, "name"))
	content := strings.TrimSpace(attr(n, "content"))
	if content == "" {
		return
	}
	switch name {
	case "description":
		if ex.description == "" {
			ex.description = content
		}
	case "keywords":
		for _, k := range strings.Split(content, ",") {
			k = strings.TrimSpace(k)
			if k != "" {
				ex.keywords = append(ex.keywords, k)
			}
		}
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// looksLikeMicroformat reports whether a class attribute carries an h-* root
// class name (hCard/hEntry-style microformats2), the only class shape kept
// for the MicroformatTags field that the optic MicroformatTag() location
// matches against.
func looksLikeMicroformat(class string) bool {
	for _, c := range strings.Fields(class) {
		if strings.HasPrefix(c, "h-") {
			return true
		}
	}
	return false
}

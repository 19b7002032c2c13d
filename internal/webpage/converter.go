package webpage

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

var (
	scriptRe       = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe        = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	excessLinesRe  = regexp.MustCompile(`\n{4,}`)
)

// Document is the converted page content handed to the extractor.
type Document struct {
	Title    string
	Markdown string
}

// Converter turns page HTML into Markdown, stripping navigation chrome so
// the LLM sees mostly guideline text.
type Converter struct {
	converter *md.Converter
}

// NewConverter creates an HTML to Markdown converter.
func NewConverter() *Converter {
	c := md.NewConverter("", true, nil)
	c.Use(plugin.GitHubFlavored())
	return &Converter{converter: c}
}

// Convert transforms HTML content into a Document.
func (c *Converter) Convert(htmlContent []byte) (*Document, error) {
	title := pageTitle(htmlContent)
	cleaned := mainContent(htmlContent)

	markdown, err := c.converter.ConvertString(cleaned)
	if err != nil {
		return nil, err
	}
	markdown = tidyMarkdown(markdown)

	if title == "" {
		title = firstHeading(markdown)
	}

	return &Document{Title: title, Markdown: markdown}, nil
}

func pageTitle(content []byte) string {
	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return ""
	}
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

// mainContent prefers <main> or <article>; otherwise it drops navigation,
// forms, and script elements and uses the remaining body.
func mainContent(content []byte) string {
	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		s := scriptRe.ReplaceAllString(string(content), "")
		return styleRe.ReplaceAllString(s, "")
	}

	for _, tag := range []string{"main", "article"} {
		if node := findTag(doc, tag); node != nil {
			return renderNode(node)
		}
	}

	dropTags(doc, []string{
		"nav", "header", "footer", "aside", "script", "style", "noscript",
		"iframe", "form", "input", "button",
	})
	dropClasses(doc, []string{
		"nav", "navbar", "sidebar", "menu", "footer", "header",
		"cookie", "banner", "social", "share", "breadcrumb",
	})

	if body := findTag(doc, "body"); body != nil {
		return renderNode(body)
	}
	return string(content)
}

func findTag(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func dropTags(n *html.Node, tags []string) {
	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[t] = true
	}

	var doomed []*html.Node
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.ElementNode && tagSet[node.Data] {
			doomed = append(doomed, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	for _, node := range doomed {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

func dropClasses(n *html.Node, classes []string) {
	classSet := make(map[string]bool, len(classes))
	for _, c := range classes {
		classSet[c] = true
	}

	var doomed []*html.Node
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.ElementNode {
			for _, a := range node.Attr {
				if a.Key != "class" {
					continue
				}
				for _, cls := range strings.Fields(strings.ToLower(a.Val)) {
					if classSet[cls] {
						doomed = append(doomed, node)
						return
					}
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	for _, node := range doomed {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

func tidyMarkdown(content string) string {
	content = excessLinesRe.ReplaceAllString(content, "\n\n\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func firstHeading(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

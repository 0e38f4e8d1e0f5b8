// Package render turns validated page chrome into HTML and markdown. All
// defaulting of absent optional link fields happens here.
package render

import (
	"bytes"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/foomo/globalcontent-mcp/service/vo"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LinkLabel returns the display text of a link, falling back to its href
// when no label is set.
func LinkLabel(l vo.Link) string {
	if label, ok := l.Label.Get(); ok && strings.TrimSpace(label) != "" {
		return label
	}
	return l.Href
}

// LinkStyle returns the link type, PRIMARY when none is set.
func LinkStyle(l vo.Link) vo.LinkType {
	return l.Type.OrElse(vo.LinkTypePrimary)
}

func LinkNode(l vo.Link) *html.Node {
	attrs := []html.Attribute{{Key: "href", Val: l.Href}}
	if l.IsExternal.OrElse(false) {
		attrs = append(attrs,
			html.Attribute{Key: "target", Val: "_blank"},
			html.Attribute{Key: "rel", Val: "noopener noreferrer"},
		)
	}
	if l.IsButtonLink.OrElse(false) {
		attrs = append(attrs, html.Attribute{Key: "class", Val: "button button--" + strings.ToLower(string(LinkStyle(l)))})
	}
	a := element(atom.A, attrs...)
	a.AppendChild(text(LinkLabel(l)))
	return a
}

func LogoNode(l vo.Logo) *html.Node {
	a := element(atom.A,
		html.Attribute{Key: "href", Val: l.LogoLink},
		html.Attribute{Key: "class", Val: "logo"},
	)
	a.AppendChild(element(atom.Img,
		html.Attribute{Key: "src", Val: l.Image.URL},
		html.Attribute{Key: "alt", Val: l.Image.AlternativeText},
	))
	if l.LogoText != "" {
		span := element(atom.Span)
		span.AppendChild(text(l.LogoText))
		a.AppendChild(span)
	}
	return a
}

// HeaderNode renders the header with nav items in their given order.
func HeaderNode(h vo.GlobalPageHeader) *html.Node {
	header := element(atom.Header)
	header.AppendChild(LogoNode(h.Logo))
	header.AppendChild(navNode(h.NavItems))
	header.AppendChild(LinkNode(h.Cta))
	return header
}

func FooterNode(f vo.GlobalPageFooter) *html.Node {
	footer := element(atom.Footer)
	footer.AppendChild(LogoNode(f.Logo))
	footer.AppendChild(navNode(f.NavItems))

	social := element(atom.Ul, html.Attribute{Key: "class", Val: "social"})
	for _, logo := range f.SocialLinks {
		li := element(atom.Li)
		li.AppendChild(LogoNode(logo))
		social.AppendChild(li)
	}
	footer.AppendChild(social)

	p := element(atom.P)
	p.AppendChild(text(f.Text))
	footer.AppendChild(p)
	return footer
}

func navNode(links []vo.Link) *html.Node {
	nav := element(atom.Nav)
	ul := element(atom.Ul)
	for _, link := range links {
		li := element(atom.Li)
		li.AppendChild(LinkNode(link))
		ul.AppendChild(li)
	}
	nav.AppendChild(ul)
	return nav
}

func HTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	return buf.String(), nil
}

func Markdown(n *html.Node) (vo.Markdown, error) {
	markdownBytes, err := htmltomarkdown.ConvertNode(n)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return vo.Markdown(string(markdownBytes)), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     a.String(),
		DataAtom: a,
		Attr:     attrs,
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

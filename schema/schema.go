// Package schema validates decoded CMS payloads against the global page
// content shapes in service/vo.
//
// Every Parse function accepts the untyped value produced by encoding/json
// (map[string]any, []any, string, bool, float64 or json.Number, nil) and
// either returns a fully typed value or a descriptive error. Parsing is pure:
// it performs no I/O, does not log and never substitutes defaults for absent
// fields.
//
// By default every failure in the value is collected; use Errors to list
// them. WithFailFast returns the first failure only.
package schema

import (
	"github.com/foomo/globalcontent-mcp/service/vo"
)

func ParseImage(v any, opts ...Option) (vo.Image, error) {
	return parseImage(v, newOptions(opts))
}

func ParseLogo(v any, opts ...Option) (vo.Logo, error) {
	return parseLogo(v, newOptions(opts))
}

func ParseLink(v any, opts ...Option) (vo.Link, error) {
	return parseLink(v, newOptions(opts))
}

// ParseLinks validates an ordered sequence of links, preserving input order.
func ParseLinks(v any, opts ...Option) ([]vo.Link, error) {
	return parseArray(v, newOptions(opts), parseLink)
}

// ParseLogos validates an ordered sequence of logos, preserving input order.
func ParseLogos(v any, opts ...Option) ([]vo.Logo, error) {
	return parseArray(v, newOptions(opts), parseLogo)
}

func ParseGlobalPageHeader(v any, opts ...Option) (vo.GlobalPageHeader, error) {
	return parseHeader(v, newOptions(opts))
}

func ParseGlobalPageFooter(v any, opts ...Option) (vo.GlobalPageFooter, error) {
	return parseFooter(v, newOptions(opts))
}

// ParseGlobalPage validates an object carrying both "header" and "footer".
func ParseGlobalPage(v any, opts ...Option) (vo.GlobalPage, error) {
	return parseGlobalPage(v, newOptions(opts))
}

func parseImage(v any, opts *options) (vo.Image, error) {
	r, err := newReader(v, opts)
	if err != nil {
		return vo.Image{}, err
	}
	img := vo.Image{
		ID:              r.requiredID("id"),
		DocumentID:      r.requiredString("documentId"),
		URL:             r.requiredString("url"),
		AlternativeText: r.requiredString("alternativeText"),
	}
	if err := r.err(); err != nil {
		return vo.Image{}, err
	}
	return img, nil
}

func parseLogo(v any, opts *options) (vo.Logo, error) {
	r, err := newReader(v, opts)
	if err != nil {
		return vo.Logo{}, err
	}
	logo := vo.Logo{
		ID:       r.requiredID("id"),
		LogoText: r.requiredString("logoText"),
		LogoLink: r.requiredString("logoLink"),
	}
	r.object("image", func(v any) (err error) {
		logo.Image, err = parseImage(v, opts)
		return err
	})
	if err := r.err(); err != nil {
		return vo.Logo{}, err
	}
	return logo, nil
}

func parseLink(v any, opts *options) (vo.Link, error) {
	r, err := newReader(v, opts)
	if err != nil {
		return vo.Link{}, err
	}
	link := vo.Link{
		Href:         r.requiredString("href"),
		Label:        r.optionalString("label"),
		IsExternal:   r.optionalBool("isExternal"),
		IsButtonLink: r.optionalBool("isButtonLink"),
		Type:         r.optionalLinkType("type"),
	}
	if err := r.err(); err != nil {
		return vo.Link{}, err
	}
	return link, nil
}

func parseHeader(v any, opts *options) (vo.GlobalPageHeader, error) {
	r, err := newReader(v, opts)
	if err != nil {
		return vo.GlobalPageHeader{}, err
	}
	var header vo.GlobalPageHeader
	r.object("logo", func(v any) (err error) {
		header.Logo, err = parseLogo(v, opts)
		return err
	})
	r.array("navItems", func(items []any) (err error) {
		header.NavItems, err = parseSequence(items, opts, parseLink)
		return err
	})
	r.object("cta", func(v any) (err error) {
		header.Cta, err = parseLink(v, opts)
		return err
	})
	if err := r.err(); err != nil {
		return vo.GlobalPageHeader{}, err
	}
	return header, nil
}

func parseFooter(v any, opts *options) (vo.GlobalPageFooter, error) {
	r, err := newReader(v, opts)
	if err != nil {
		return vo.GlobalPageFooter{}, err
	}
	var footer vo.GlobalPageFooter
	r.object("logo", func(v any) (err error) {
		footer.Logo, err = parseLogo(v, opts)
		return err
	})
	r.array("navItems", func(items []any) (err error) {
		footer.NavItems, err = parseSequence(items, opts, parseLink)
		return err
	})
	r.array("socialLinks", func(items []any) (err error) {
		footer.SocialLinks, err = parseSequence(items, opts, parseLogo)
		return err
	})
	footer.Text = r.requiredString("text")
	if err := r.err(); err != nil {
		return vo.GlobalPageFooter{}, err
	}
	return footer, nil
}

func parseGlobalPage(v any, opts *options) (vo.GlobalPage, error) {
	r, err := newReader(v, opts)
	if err != nil {
		return vo.GlobalPage{}, err
	}
	var page vo.GlobalPage
	r.object("header", func(v any) (err error) {
		page.Header, err = parseHeader(v, opts)
		return err
	})
	r.object("footer", func(v any) (err error) {
		page.Footer, err = parseFooter(v, opts)
		return err
	})
	if err := r.err(); err != nil {
		return vo.GlobalPage{}, err
	}
	return page, nil
}

func parseArray[T any](v any, opts *options, parse func(v any, opts *options) (T, error)) ([]T, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, &TypeMismatchError{Expected: KindArray, Actual: KindOf(v)}
	}
	return parseSequence(items, opts, parse)
}

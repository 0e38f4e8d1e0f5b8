package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/foomo/globalcontent-mcp/service/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	v, err := Decode(bytes.NewReader([]byte(s)))
	require.NoError(t, err)
	return v
}

func roundTrip(t *testing.T, x any) any {
	t.Helper()
	data, err := json.Marshal(x)
	require.NoError(t, err)
	return decode(t, string(data))
}

func testLogo(id int64, text string) vo.Logo {
	return vo.Logo{
		ID:       id,
		LogoText: text,
		LogoLink: "/",
		Image: vo.Image{
			ID:              id + 100,
			DocumentID:      "doc-" + text,
			URL:             "/uploads/" + text + ".svg",
			AlternativeText: "",
		},
	}
}

func testHeader() vo.GlobalPageHeader {
	return vo.GlobalPageHeader{
		Logo: testLogo(1, "brand"),
		NavItems: []vo.Link{
			{Href: "/blog", Label: vo.Some("Blog")},
			{Href: "/about", Label: vo.Some(""), IsButtonLink: vo.Some(false)},
			{Href: "https://github.com/foomo", IsExternal: vo.Some(true), Type: vo.Some(vo.LinkTypeSecondary)},
		},
		Cta: vo.Link{Href: "/signup", Label: vo.Some("Sign up"), IsButtonLink: vo.Some(true), Type: vo.Some(vo.LinkTypePrimary)},
	}
}

func testFooter() vo.GlobalPageFooter {
	return vo.GlobalPageFooter{
		Logo:        testLogo(1, "brand"),
		NavItems:    []vo.Link{{Href: "/imprint"}, {Href: "/privacy", Label: vo.Some("Privacy")}},
		SocialLinks: []vo.Logo{testLogo(2, "github"), testLogo(3, "x")},
		Text:        "© 2026 foomo",
	}
}

func TestRoundTrip(t *testing.T) {
	t.Run("image", func(t *testing.T) {
		want := testLogo(5, "img").Image
		got, err := ParseImage(roundTrip(t, want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
	t.Run("logo", func(t *testing.T) {
		want := testLogo(5, "logo")
		got, err := ParseLogo(roundTrip(t, want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
	t.Run("link", func(t *testing.T) {
		want := testHeader().Cta
		got, err := ParseLink(roundTrip(t, want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
	t.Run("header", func(t *testing.T) {
		want := testHeader()
		got, err := ParseGlobalPageHeader(roundTrip(t, want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
	t.Run("footer", func(t *testing.T) {
		want := testFooter()
		got, err := ParseGlobalPageFooter(roundTrip(t, want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
	t.Run("global page", func(t *testing.T) {
		want := vo.GlobalPage{Header: testHeader(), Footer: testFooter()}
		got, err := ParseGlobalPage(roundTrip(t, want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestParseLinkMissingHref(t *testing.T) {
	_, err := ParseLink(decode(t, `{"label":"Home"}`))
	require.Error(t, err)
	assert.Equal(t, &MissingFieldError{Field: "href"}, err)
}

func TestParseImageIDTypeMismatch(t *testing.T) {
	_, err := ParseImage(decode(t, `{"id":"7","documentId":"d","url":"/a.png","alternativeText":""}`))
	assert.Equal(t, &TypeMismatchError{Field: "id", Expected: "number", Actual: "string"}, err)
}

func TestParseLogoIDTypeMismatch(t *testing.T) {
	in := decode(t, `{"id":"1","logoText":"x","logoLink":"/","image":{"id":1,"documentId":"d","url":"/a.png","alternativeText":""}}`)
	_, err := ParseLogo(in)
	assert.Equal(t, &TypeMismatchError{Field: "id", Expected: "number", Actual: "string"}, err)
}

func TestParseImageNonIntegralID(t *testing.T) {
	_, err := ParseImage(decode(t, `{"id":1.5,"documentId":"d","url":"/a.png","alternativeText":""}`))
	assert.Equal(t, &TypeMismatchError{Field: "id", Expected: "integer", Actual: "number"}, err)
}

func TestParseImageAcceptsFloatAndIntIDs(t *testing.T) {
	for _, id := range []any{float64(7), 7, int64(7), json.Number("7")} {
		img, err := ParseImage(map[string]any{"id": id, "documentId": "d", "url": "/a.png", "alternativeText": ""})
		require.NoError(t, err)
		assert.Equal(t, int64(7), img.ID)
	}
}

func TestParseLinkInvalidType(t *testing.T) {
	_, err := ParseLink(decode(t, `{"href":"/","type":"TERTIARY"}`))
	assert.Equal(t, &InvalidEnumValueError{Field: "type", Value: "TERTIARY", Allowed: []string{"PRIMARY", "SECONDARY"}}, err)
}

func TestParseLinkTypeIsCaseSensitive(t *testing.T) {
	_, err := ParseLink(decode(t, `{"href":"/","type":"primary"}`))
	var enum *InvalidEnumValueError
	require.True(t, errors.As(err, &enum))
	assert.Equal(t, "primary", enum.Value)
}

func TestParseLinkOptionalFields(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		link, err := ParseLink(decode(t, `{"href":"/"}`))
		require.NoError(t, err)
		assert.Equal(t, vo.Link{Href: "/"}, link)
		assert.False(t, link.Label.IsSet())
		assert.False(t, link.IsExternal.IsSet())
		assert.False(t, link.IsButtonLink.IsSet())
		assert.False(t, link.Type.IsSet())
	})
	t.Run("present zero values", func(t *testing.T) {
		link, err := ParseLink(decode(t, `{"href":"/","label":"","isExternal":false,"isButtonLink":false}`))
		require.NoError(t, err)
		assert.Equal(t, vo.Some(""), link.Label)
		assert.Equal(t, vo.Some(false), link.IsExternal)
		assert.Equal(t, vo.Some(false), link.IsButtonLink)
	})
	t.Run("explicit null", func(t *testing.T) {
		_, err := ParseLink(decode(t, `{"href":"/","label":null}`))
		assert.Equal(t, &TypeMismatchError{Field: "label", Expected: "string", Actual: "null"}, err)
	})
	t.Run("wrong kind", func(t *testing.T) {
		_, err := ParseLink(decode(t, `{"href":"/","isExternal":"yes"}`))
		assert.Equal(t, &TypeMismatchError{Field: "isExternal", Expected: "boolean", Actual: "string"}, err)
	})
}

func TestParseLinkIgnoresUnknownFields(t *testing.T) {
	link, err := ParseLink(decode(t, `{"id":12,"href":"/","createdAt":"2026-01-01"}`))
	require.NoError(t, err)
	assert.Equal(t, vo.Link{Href: "/"}, link)
}

func TestParseEntityNotAnObject(t *testing.T) {
	_, err := ParseLink(decode(t, `"/"`))
	assert.Equal(t, &TypeMismatchError{Expected: "object", Actual: "string"}, err)

	_, err = ParseLinks(decode(t, `{}`))
	assert.Equal(t, &TypeMismatchError{Expected: "array", Actual: "object"}, err)
}

func TestParseLogoNestedImageURLMissing(t *testing.T) {
	_, err := ParseLogo(decode(t, `{"id":1,"logoText":"x","logoLink":"/","image":{"id":1,"documentId":"d","alternativeText":""}}`))
	var nested *NestedValidationError
	require.True(t, errors.As(err, &nested))
	assert.Equal(t, "image.url", nested.Path)
	assert.Equal(t, &MissingFieldError{Field: "url"}, nested.Cause)
	assert.Equal(t, "image.url", Path(err))
}

func TestParseHeaderDeepPath(t *testing.T) {
	header := roundTrip(t, testHeader()).(map[string]any)
	image := header["logo"].(map[string]any)["image"].(map[string]any)
	delete(image, "url")

	_, err := ParseGlobalPageHeader(header)
	assert.Equal(t, &NestedValidationError{Path: "logo.image.url", Cause: &MissingFieldError{Field: "url"}}, err)
}

func TestParseHeaderNavItemPath(t *testing.T) {
	header := roundTrip(t, testHeader()).(map[string]any)
	header["navItems"].([]any)[2].(map[string]any)["type"] = "TERTIARY"

	_, err := ParseGlobalPageHeader(header)
	var nested *NestedValidationError
	require.True(t, errors.As(err, &nested))
	assert.Equal(t, "navItems[2].type", nested.Path)
	assert.IsType(t, &InvalidEnumValueError{}, nested.Cause)
}

func TestParseFooterEmptySequences(t *testing.T) {
	in := roundTrip(t, testFooter()).(map[string]any)
	in["navItems"] = []any{}
	in["socialLinks"] = []any{}

	footer, err := ParseGlobalPageFooter(in)
	require.NoError(t, err)
	assert.Empty(t, footer.NavItems)
	assert.Empty(t, footer.SocialLinks)
}

func TestParseFooterNullSequence(t *testing.T) {
	in := roundTrip(t, testFooter()).(map[string]any)
	in["socialLinks"] = nil

	_, err := ParseGlobalPageFooter(in)
	assert.Equal(t, &TypeMismatchError{Field: "socialLinks", Expected: "array", Actual: "null"}, err)
}

func TestParseLinksPreservesOrder(t *testing.T) {
	a := vo.Link{Href: "/a", Label: vo.Some("A")}
	b := vo.Link{Href: "/b", Label: vo.Some("B")}
	c := vo.Link{Href: "/c", Label: vo.Some("C")}

	for name, opts := range map[string][]Option{
		"sequential": nil,
		"parallel":   {WithConcurrency(3)},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := ParseLinks(roundTrip(t, []vo.Link{a, b, c}), opts...)
			require.NoError(t, err)
			assert.Equal(t, []vo.Link{a, b, c}, got)
		})
	}
}

func TestParseLinksCollectsAllFailures(t *testing.T) {
	in := decode(t, `[{"href":"/a"},{"label":"no href"},{"href":"/c","type":"TERTIARY"},{"href":3}]`)

	for name, opts := range map[string][]Option{
		"sequential": nil,
		"parallel":   {WithConcurrency(4)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLinks(in, opts...)
			errs := Errors(err)
			require.Len(t, errs, 3)
			assert.Equal(t, []string{"[1].href", "[2].type", "[3].href"}, []string{Path(errs[0]), Path(errs[1]), Path(errs[2])})
		})
	}
}

func TestParseLinksFailFast(t *testing.T) {
	in := decode(t, `[{"href":"/a"},{"label":"no href"},{"href":"/c","type":"TERTIARY"}]`)

	for name, opts := range map[string][]Option{
		"sequential": {WithFailFast()},
		"parallel":   {WithFailFast(), WithConcurrency(2)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLinks(in, opts...)
			require.Len(t, Errors(err), 1)
			assert.Equal(t, &NestedValidationError{Path: "[1].href", Cause: &MissingFieldError{Field: "href"}}, err)
		})
	}
}

func TestParseImageCollectVersusFailFast(t *testing.T) {
	in := decode(t, `{"id":"1","alternativeText":""}`)

	_, err := ParseImage(in)
	assert.Equal(t, []error{
		&TypeMismatchError{Field: "id", Expected: "number", Actual: "string"},
		&MissingFieldError{Field: "documentId"},
		&MissingFieldError{Field: "url"},
	}, Errors(err))

	_, err = ParseImage(in, WithFailFast())
	assert.Equal(t, &TypeMismatchError{Field: "id", Expected: "number", Actual: "string"}, err)
}

func TestParseFooterFailuresAcrossNesting(t *testing.T) {
	in := roundTrip(t, testFooter()).(map[string]any)
	delete(in, "text")
	in["socialLinks"].([]any)[1].(map[string]any)["image"] = "github.svg"
	delete(in["logo"].(map[string]any), "logoText")

	_, err := ParseGlobalPageFooter(in)
	assert.Equal(t, []string{"logo.logoText", "socialLinks[1].image", "text"}, pathsOf(Errors(err)))
}

func TestDecodeGlobalPageHeader(t *testing.T) {
	data, err := json.Marshal(testHeader())
	require.NoError(t, err)

	header, err := DecodeGlobalPageHeader(data)
	require.NoError(t, err)
	assert.Equal(t, testHeader(), header)

	_, err = DecodeGlobalPageHeader([]byte(`{"logo":`))
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
}

func TestDecodeGlobalPageFooter(t *testing.T) {
	data, err := json.Marshal(testFooter())
	require.NoError(t, err)

	footer, err := DecodeGlobalPageFooter(data)
	require.NoError(t, err)
	assert.Equal(t, testFooter(), footer)
}

func TestDecodeKeepsLargeIDs(t *testing.T) {
	img, err := ParseImage(decode(t, `{"id":9007199254740993,"documentId":"d","url":"/a.png","alternativeText":""}`))
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), img.ID)
}

func pathsOf(errs []error) []string {
	paths := make([]string, len(errs))
	for i, err := range errs {
		paths[i] = Path(err)
	}
	return paths
}

func TestParseLinksEntryNotAnObject(t *testing.T) {
	_, err := ParseLinks(decode(t, `[{"href":"/"},"/about"]`))
	assert.Equal(t, &NestedValidationError{
		Path:  "[1]",
		Cause: &TypeMismatchError{Expected: "object", Actual: "string"},
	}, err)
}

func TestIssues(t *testing.T) {
	_, err := ParseLink(decode(t, `{"isExternal":1,"type":"TERTIARY"}`))
	assert.Equal(t, []vo.ValidationIssue{
		{Path: "href", Kind: IssueMissingField, Message: `missing field "href"`},
		{Path: "isExternal", Kind: IssueTypeMismatch, Message: `field "isExternal": expected boolean, got number`, Expected: "boolean", Actual: "number"},
		{Path: "type", Kind: IssueInvalidEnumValue, Message: `field "type": invalid value "TERTIARY", allowed PRIMARY, SECONDARY`, Actual: "TERTIARY", Allowed: []string{"PRIMARY", "SECONDARY"}},
	}, Issues(err))
	assert.True(t, IsValidationError(err))
	assert.Nil(t, Issues(nil))
}

func TestWithPath(t *testing.T) {
	assert.NoError(t, WithPath("header", nil))

	_, err := ParseLogo(decode(t, `{"id":1,"logoText":"x","logoLink":"/","image":{"id":1,"documentId":"d","alternativeText":""}}`))
	err = WithPath("header.logo", err)
	assert.Equal(t, "header.logo.image.url", Path(err))
}

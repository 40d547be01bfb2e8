package metadata

import (
	"errors"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/linkstash/pkg/types"
)

// candidates collects every source of each field so precedence is applied once
type candidates struct {
	ogTitle, twitterTitle, title                   string
	ogDescription, description, twitterDescription string
	ogImage, twitterImage                          string
}

// Parse reads an HTML document head and returns its metadata. base resolves
// relative image URLs and may be nil.
func Parse(r io.Reader, base *url.URL) (*types.LinkMetadata, error) {
	var c candidates
	z := html.NewTokenizer(r)
	inTitle := false

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return c.resolve(base), nil
			}
			return nil, z.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Title:
				inTitle = tt == html.StartTagToken && c.title == ""
			case atom.Meta:
				c.meta(tok.Attr)
			case atom.Body:
				return c.resolve(base), nil
			}

		case html.TextToken:
			if inTitle {
				c.title += string(z.Text())
			}

		case html.EndTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Title:
				inTitle = false
			case atom.Head:
				return c.resolve(base), nil
			}
		}
	}
}

// meta records one <meta> element
func (c *candidates) meta(attrs []html.Attribute) {
	var key, content string
	for _, a := range attrs {
		switch strings.ToLower(a.Key) {
		case "property", "name":
			if key == "" {
				key = strings.ToLower(strings.TrimSpace(a.Val))
			}
		case "content":
			content = a.Val
		}
	}
	if content == "" {
		return
	}

	set := func(dst *string) {
		if *dst == "" {
			*dst = content
		}
	}
	switch key {
	case "og:title":
		set(&c.ogTitle)
	case "twitter:title":
		set(&c.twitterTitle)
	case "og:description":
		set(&c.ogDescription)
	case "description":
		set(&c.description)
	case "twitter:description":
		set(&c.twitterDescription)
	case "og:image", "og:image:url", "og:image:secure_url":
		set(&c.ogImage)
	case "twitter:image", "twitter:image:src":
		set(&c.twitterImage)
	}
}

func (c *candidates) resolve(base *url.URL) *types.LinkMetadata {
	return &types.LinkMetadata{
		Title:       clean(first(c.ogTitle, c.twitterTitle, c.title), maxTitleRunes),
		Description: clean(first(c.ogDescription, c.description, c.twitterDescription), maxDescriptionRunes),
		ImageURL:    absolute(base, first(c.ogImage, c.twitterImage)),
	}
}

// first returns the first value that is not blank
func first(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// absolute resolves ref against base, dropping anything that is not http(s)
func absolute(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

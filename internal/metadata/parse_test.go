package metadata

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	base, err := url.Parse("https://react.dev/learn/hooks")
	require.NoError(t, err)

	tests := []struct {
		name        string
		html        string
		title       string
		description string
		image       string
	}{
		{
			name: "open graph wins",
			html: `<html><head>
				<title>Plain Title</title>
				<meta name="description" content="Plain description">
				<meta property="og:title" content="React Hooks Guide">
				<meta property="og:description" content="Learn hooks">
				<meta property="og:image" content="/images/og.png">
			</head><body></body></html>`,
			title:       "React Hooks Guide",
			description: "Learn hooks",
			image:       "https://react.dev/images/og.png",
		},
		{
			name: "title and meta description fallback",
			html: `<html><head>
				<title>  Go   Generics
				Intro </title>
				<meta name="Description" content="Type parameters in Go">
			</head></html>`,
			title:       "Go Generics Intro",
			description: "Type parameters in Go",
		},
		{
			name: "twitter card",
			html: `<head>
				<meta name="twitter:title" content="Card Title">
				<meta name="twitter:description" content="Card description">
				<meta name="twitter:image" content="https://cdn.example.com/card.jpg">
			</head>`,
			title:       "Card Title",
			description: "Card description",
			image:       "https://cdn.example.com/card.jpg",
		},
		{
			name:  "entities unescaped",
			html:  `<head><title>Tom &amp; Jerry</title></head>`,
			title: "Tom & Jerry",
		},
		{
			name:  "body tags ignored",
			html:  `<head><title>Head</title></head><body><meta property="og:title" content="Body"></body>`,
			title: "Head",
		},
		{
			name:  "non-http image dropped",
			html:  `<head><meta property="og:image" content="javascript:alert(1)"><title>x</title></head>`,
			title: "x",
		},
		{
			name: "empty document",
			html: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := Parse(strings.NewReader(tt.html), base)
			require.NoError(t, err)
			assert.Equal(t, tt.title, meta.Title)
			assert.Equal(t, tt.description, meta.Description)
			assert.Equal(t, tt.image, meta.ImageURL)
		})
	}
}

func TestParse_TruncatesLongTitle(t *testing.T) {
	long := strings.Repeat("a", maxTitleRunes+50)
	meta, err := Parse(strings.NewReader("<title>"+long+"</title>"), nil)
	require.NoError(t, err)
	assert.Len(t, []rune(meta.Title), maxTitleRunes)
}

func TestIsHTML(t *testing.T) {
	assert.True(t, isHTML(""))
	assert.True(t, isHTML("text/html"))
	assert.True(t, isHTML("text/html; charset=utf-8"))
	assert.True(t, isHTML("application/xhtml+xml"))
	assert.False(t, isHTML("application/pdf"))
	assert.False(t, isHTML("image/png"))
}

// Package metadata fetches a web page and extracts its display metadata: title,
// description and preview image.
//
// Open Graph tags win over Twitter card tags, which win over the plain <title>
// and <meta name="description"> elements. Only the document head is read.
//
//	f := metadata.NewHTTPFetcher(metadata.DefaultConfig())
//	meta, err := f.Fetch(ctx, "https://react.dev/learn")
//
// Network errors and 5xx responses are retried with exponential backoff. 4xx
// responses fail immediately. Non-HTML responses return empty metadata.
package metadata

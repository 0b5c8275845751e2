// Package assets embeds the quote collection shipped with the binary.
package assets

import _ "embed"

// BundledQuotes is a JSON array of domain.Quote served until the first import.
//
//go:embed quotes.json
var BundledQuotes []byte

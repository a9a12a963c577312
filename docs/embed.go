// Package docs bundles the long-form guides shown by 'sift docs'.
package docs

import "embed"

// FS contains the Markdown guides bundled with the sift binary.
//
//go:embed guide
var FS embed.FS

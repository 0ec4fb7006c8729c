// Package roadmap ships the canonical status document that the roadmap site
// renders. The file lives at the repository root so that the mutation tool
// and the site read the same bytes.
package roadmap

import _ "embed"

// StatusJSON is the committed status.json.
//
//go:embed status.json
var StatusJSON []byte

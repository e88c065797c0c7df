// Package configs provides the embedded configuration template for grimoire.
//
// The template is embedded at build time with go:embed so it ships in every
// distribution. `grimoire init` writes it to .grimoire.yaml in the library's
// parent directory; internal/config.Load() merges it over the hardcoded
// defaults.
package configs

import _ "embed"

// ConfigTemplate is the annotated starter configuration written by
// `grimoire init`.
//
//go:embed config.example.yaml
var ConfigTemplate string

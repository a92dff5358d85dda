// Package web embeds the static budget page served at "/".
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte

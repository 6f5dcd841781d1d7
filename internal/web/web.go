// Package web embeds the browser UI served at "/".
package web

import _ "embed"

//go:embed static/index.html
var IndexHTML []byte

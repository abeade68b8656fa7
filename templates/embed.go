// Package templates provides embedded shells for generated report files.
package templates

import _ "embed"

// DashboardHTML is the standalone dashboard page. Report generation embeds
// the recap JSON directly into it, so the written file renders over file://
// with no server behind it.
//
//go:embed dashboard.html
var DashboardHTML string

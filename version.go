package zonecheck

import _ "embed"

// Version is the release of the zonecheck module.
//
//go:embed VERSION
var Version string

package version

// VERSION is the current version of stale.
const VERSION = "v0.1.0"

// GITCOMMIT is the git commit the binary was built from.
// It is injected at build time.
var GITCOMMIT = ""

package application

import "expvar"

// Counters published at /debug/vars.
var (
	linksIssued   = expvar.NewInt("auth_magic_links_issued")
	linksRejected = expvar.NewMap("auth_magic_links_rejected")
	logins        = expvar.NewMap("auth_logins")
)

// Package credential holds the bearer token that authenticates the
// workspace channel.
//
// The token is owned by the application's auth flow; the channel only
// reads it. Store is the in-memory, watchable holder the channel binds
// to, and FileStore is an optional on-disk token cache for CLI logins.
// An empty token means "no credential": the channel must tear down and
// stop reconnecting when it observes one.
package credential

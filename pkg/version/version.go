// Package version exposes build identification for the client library.
package version

// Library is the module's human-readable name.
const Library = "inkwell-go"

// Version is the library version, bumped on release.
const Version = "0.4.0"

// UserAgent returns the value sent as the client identifier.
func UserAgent() string {
	return Library + "/" + Version
}

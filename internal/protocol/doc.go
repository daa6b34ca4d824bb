// Package protocol holds the record schemas of every supported client
// generation and registers them in the default registry.
//
// Each generation decodes "replay.details" into its own typed record, named
// after the field tags that generation writes, then adapts it into the
// stable types.Details shape. Adding a client generation means adding a file
// with a new record type and one MustRegister call; nothing branches on build
// numbers elsewhere.
package protocol

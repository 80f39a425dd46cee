// Package credentials persists the access and refresh token pair.
//
// A Store is synchronous and treats tokens as opaque strings; the empty
// string means absent. Three backends are provided: MemoryStore for tests
// and short-lived processes, DiskStore for a single user across restarts,
// and RedisStore for sharing a session between processes.
package credentials

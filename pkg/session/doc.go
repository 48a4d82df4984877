// Package session persists engine session state between connections.
//
// A State snapshot carries everything a server needs to revive a
// session on a fresh WebSocket: identity, activity timestamps, the
// patch sequence counter, and the ordered state-cell values of the
// mount target.
//
// # Stores
//
// The Store interface has four backends:
//
//	store := session.NewMemoryStore()                        // default
//	store := session.NewRedisStore("localhost:6379", "", 0)  // shared
//	store, err := session.NewBoltStore("/var/lib/graft.db")  // durable
//	store := session.NewS3Store(s3Client, "my-bucket")       // object storage
//
// All stores enforce a TTL: expired sessions load as ErrNotFound.
// MemoryStore sweeps in the background; RedisStore leans on native key
// expiry plus an index sweep; BoltStore and S3Store expire lazily.
package session

// Package vault defines the capability interface for the external encrypted
// store persisting session records. The store is treated as an opaque
// key-value service addressed by a schema id and queried with equality
// filters; its encryption and replication semantics are out of scope and live
// entirely behind the Client interface, which tests replace with fakes.
package vault

// Package server exposes the conversation service over HTTP. The
// conversational endpoint always answers with a reply (persistence problems
// are advisory), while the vault management endpoints return hard errors:
// 503 when the store is unconfigured or failed to initialize, 404 for
// missing records and 400 for malformed input.
package server

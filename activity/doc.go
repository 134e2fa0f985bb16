// Package activity owns the activity record lifecycle: the visibility
// filter that scopes every read to the requester's role, the secondary
// type/date criteria that narrow within that scope, and the Bun-backed
// repository that persists records.
package activity

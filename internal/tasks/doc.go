// Package tasks provides a normalizing client for the Google Tasks API.
//
// The dashboard tracks three task states (not-started, in-progress,
// done) while Google Tasks only stores two. The extra state is encoded
// as a "[IN_PROGRESS]" marker inside the task notes: decoding strips
// the marker out of the visible description, encoding puts it back.
// A completed provider status always maps to done regardless of the
// marker.
//
// Updates are read-modify-write: the stored task is fetched first so a
// partial update never clobbers fields the caller did not supply.
//
// A client built without a credential is disconnected: reads return
// empty results, writes return nil or false.
package tasks

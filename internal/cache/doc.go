// Package cache derives content addresses for verdicts and encodes verdict
// payloads for the persistent stores.
//
// A verdict key is the BLAKE3 hash of the canonical query text and of the
// raw definition of every component the query names. Editing a component
// changes the key, so stored verdicts never need invalidation.
package cache

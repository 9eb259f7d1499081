// Package cache stores generated chat responses for a short time so repeated
// questions skip the upstream model.
//
// Entries are keyed by Fingerprint, which always includes the chat type:
// the same question asked under two chat types is answered under different
// system framing and cached separately.
//
// Expiry is enforced on lookup. A Sweeper removes expired entries on a fixed
// schedule to bound memory, but correctness never depends on when it runs.
// There is no size cap; growth between sweeps is bounded only by traffic.
package cache

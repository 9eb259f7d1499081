// Package chat turns a validated chat request into a reply.
//
// It owns the per-type system prompts and fallback texts and the Service
// that consults the response cache, invokes the upstream provider and
// degrades to a fallback on any upstream failure. Failures are never cached.
package chat

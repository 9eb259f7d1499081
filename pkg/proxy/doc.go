// Package proxy holds the gateway's HTTP plumbing shared by the handlers
// and middleware: request body decoding, JSON and streamed response
// writers, and the mapping from internal errors to client-visible bodies.
//
// # Request decoding
//
// Chat bodies are capped at MaxRequestBodySize and decoded into a
// validation.RawRequest so that field type errors are reported by the
// validator rather than by the JSON decoder:
//
//	raw, err := proxy.DecodeChatRequest(r)
//	if err != nil {
//	    proxy.WriteError(w, proxy.HandleError(err))
//	    return
//	}
//
// # Streaming
//
// Streamed replies are newline-delimited records prefixed with "data: ".
// Each content record is followed by a blank line and flushed immediately;
// the stream ends with the terminal record "data: [DONE]":
//
//	data: {"content":"Try the "}
//
//	data: {"content":"dumplings"}
//
//	data: [DONE]
//
// # Errors
//
// HandleError maps errors to the bodies in package types. Upstream failures
// never reach it: the chat handlers answer those with the fallback reply.
package proxy

// Package stream consumes the gateway's incremental chat response.
//
// The wire format is a sequence of newline-separated records. Only records
// prefixed with "data: " carry meaning. The payload "[DONE]" ends the
// stream; any other payload is decoded as {"content": "..."} and, when that
// fails, surfaced verbatim as a raw event. Records may arrive split across
// any number of reads.
//
//	s := stream.Consume(ctx, resp.Body)
//	for ev := range s.Events() {
//		fmt.Print(ev.Text())
//	}
//	if err := s.Wait(); err != nil {
//		return err
//	}
package stream

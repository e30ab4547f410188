// Package discovery finds a locally running assistant backend.
//
// Backends listen on one of a short, fixed list of loopback ports. Discovery
// walks that list in order and returns the first candidate whose health
// endpoint answers with a 2xx status.
//
// # Discovery Process
//
//  1. Build the candidate list: http://127.0.0.1:5002, then http://127.0.0.1:5004
//  2. Append candidates from optional sources (mDNS), skipping duplicates
//  3. Probe each candidate with GET <candidate>/ping, bounded by a 2s timeout
//  4. Stop at the first live candidate
//
// Nothing is cached. Every call starts again from the top of the list, so a
// backend that stops is noticed on the next call, and one that starts on a
// preferred port takes over immediately.
//
// # Usage Example
//
//	finder := discovery.NewFinder(nil)
//	serverURL, ok := finder.FindAvailableServer(ctx)
//	if !ok {
//	    log.Fatal("no backend running")
//	}
//
// # Probes
//
// A probe never returns an error. Connection failures, timeouts, cancelled
// contexts and non-2xx answers all count as "not live". The probe deadline
// cancels the in-flight request and never affects the caller's context.
//
// # Parallel Mode
//
// Finder.Parallel probes all candidates at once and still prefers the earliest
// live candidate in list order. Remaining probes are cancelled as soon as the
// winner is known.
package discovery

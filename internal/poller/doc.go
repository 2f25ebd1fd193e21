// Package poller implements the Quote Poller component.
//
// The Quote Poller:
//   - Polls the REST quotes endpoint on a fixed interval
//   - Batches symbols into chunked requests (the vendor accepts
//     comma-joined symbol lists)
//   - Uses bounded concurrent requests
//   - Tags each cycle with a UUID carried into storage rows
package poller

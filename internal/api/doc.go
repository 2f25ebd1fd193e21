// Package api provides the TD Ameritrade API client.
//
// REST base URL:
//   - Production: https://api.tdameritrade.com/v1
//
// Each exported method maps one-to-one onto a documented vendor endpoint:
// accounts, orders, saved orders, transactions, watchlists, quotes, price
// history, instruments, and user principals. Methods build the request,
// attach the bearer credential, and decode the JSON response unchanged.
// Non-2xx responses surface as *APIError carrying the original HTTP
// status code and body. The client never retries, caches, or coalesces.
package api

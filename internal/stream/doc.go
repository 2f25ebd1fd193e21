// Package stream implements the TD Ameritrade streamer WebSocket client.
//
// The streamer is the real-time counterpart of the REST API. Login
// credentials are derived from GET /userprincipals (streamerConnectionInfo
// and streamerSubscriptionKeys fields). After an ADMIN LOGIN handshake,
// data services are subscribed with SUBS commands; QUOTE deliveries are
// forwarded downstream for routing.
package stream

// Package fleetapi provides an HTTP client for the fleet REST backend.
//
// The client covers the four calls the dashboard makes:
//
//   - GET /vehicles: vehicle rows, kept as opaque JSON records
//   - GET /dashboardCards: summary cards
//   - PUT /vehicles/{id}: persist a status edit
//   - POST /users: create a user
//
// Every request carries the caller's context, an Accept: application/json
// header and the fleetdash User-Agent, and is bounded by a 5-second client
// timeout. Responses with status 400 or above come back as *StatusError:
//
//	api /vehicles/3 returned status 500
//
// The bind address accepts "host:port" or a full URL; the scheme defaults to
// http and any path is dropped. The client does not retry; the poller owns
// the refresh cadence and backoff.
package fleetapi

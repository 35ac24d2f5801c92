// Package mockserver is the development backend for fleetdash: a small
// JSON-collection REST server in the style of json-server.
//
// Every top-level array of a db.json document becomes a collection served at
// /{collection} (GET list, POST create) and /{collection}/{id} (GET, PUT,
// PATCH, DELETE). Records live in SQLite; the schema is applied with
// golang-migrate from embedded SQL files. All responses carry permissive CORS
// headers, OPTIONS requests are answered with 200, and each request is logged
// as "<timestamp> - <METHOD> <URL>".
package mockserver

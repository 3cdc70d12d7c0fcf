// Package client is the HTTP binding of the remote form service. Endpoint
// methods and paths are resolved from an embedded OpenAPI contract
// (openapi.yaml) so the client and the demo server in internal/server agree
// on the wire surface. Non-2xx responses become *APIError values whose
// message is the service's own text.
package client

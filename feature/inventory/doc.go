// Package inventory exposes a read-only view of the controller objects.
//
// It does not mutate anything: every endpoint is a query against the
// campus controller, grouped or filtered for operator consumption.
//
// # HTTP Endpoints
//
//   - GET /sites : Lists every site.
//   - GET /devices : Lists devices (supports ?site_id=).
//   - GET /inventory : Lists sites with their devices grouped together.
//   - GET /lookup/:kind : Resolves the query parameters as a selector
//     and returns the single matching object, 404 when nothing matches,
//     409 when the selector is ambiguous.
package inventory

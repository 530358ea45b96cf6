// Package http provides HTTP handlers and middleware for the desk booking API.
//
// The router exposes three tiers of endpoints:
//   - Public: POST /auth/login and POST /auth/signup (alias /auth/register)
//     issue bearer tokens; GET /health reports storage reachability.
//   - Bearer token: POST /auth/logout, /auth/change-password and
//     /auth/delete-account manage the caller's account; GET /desks returns
//     the grid status for a day; GET/POST /bookings and DELETE
//     /bookings/{id} manage half-day bookings.
//   - HTTP Basic (administrator): PATCH /desks/{id} edits a desk and may
//     cascade-delete its bookings; GET/POST /coverages, DELETE
//     /coverages/{id} and POST /coverages/clear manage staff away periods;
//     DELETE /admin/users/{username} removes an account outright.
//
// Request/response DTOs live alongside their respective handlers so tests
// and documentation share the same ground truth.
package http

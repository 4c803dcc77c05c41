// Package maney provides the data model of the Maney client: the session
// principal, the credentials submitted to log in or register, the portfolio and
// its illiquid assets.
//
// The client owns no durable state besides the session: every portfolio and
// asset is fetched from the remote backend and mutated through it. The sub
// packages implement the pieces of the client:
//   - session: the store of the authenticated user, surviving restarts.
//   - api: the HTTP client of the backend, with its anti-forgery token protocol.
//   - view: one state machine per use case (login, register, portfolio, asset).
//   - renderer: markdown rendering of the views.
//   - shell: the router, the theme and the interactive loop.
//   - devproxy: the development reverse proxy in front of the backend.
//
// This package serves as the foundation of the `maney` command-line tool.
package maney

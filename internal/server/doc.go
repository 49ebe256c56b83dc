// Package server runs the short-lived loopback HTTP server used by the browser authorization flow.
//
// # Router
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first).
// [BasicRouter] uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] validates the state parameter, exchanges the authorization code for a token and sends the
// result through a channel. It processes a single callback; later requests are rejected.
//
// # Loopback Server
//
// [Start] binds the redirect URI's host and port before returning, so a port already in use is reported to the
// caller instead of surfacing after the browser has been opened.
package server

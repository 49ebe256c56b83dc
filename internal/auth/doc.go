// Package auth acquires OAuth2 credentials for the source and destination services.
//
// A [Provider] is built from the loaded configuration. It reuses tokens from the [TokenCache] when they are
// valid or can be refreshed, and otherwise runs a [Flow]:
//
//   - [ConsoleFlow] prints the authorization URL and reads the code (or the whole redirected URL) from stdin.
//   - [CallbackFlow] serves the redirect URI on a loopback server and opens the browser.
//   - [StaticFlow] returns a fixed token.
//
// Every failure is reported as [shared.ErrAuthFailed].
package auth

// Package telemetry emits best-effort analytics events for the admin shell.
//
// # Gate
//
// Events are only sent when the installation identity is enabled: a uuid is
// present and telemetry has not been disabled in settings. Without it Emit
// returns immediately and performs no network call.
//
// # Payload
//
// Each event is POSTed as JSON to the analytics endpoint:
//
//	{"event": "didAccessAuthenticatedAdministration",
//	 "properties": {"projectType": "Community", ...},
//	 "uuid": "6f9619ff-..."}
//
// The projectType property is always set from configuration and overrides a
// caller-supplied value of the same name.
//
// # Failure Semantics
//
// Emit is fire-and-forget. The send runs on its own goroutine with a timeout;
// transport errors, timeouts and non-2xx responses are discarded on purpose.
// They are never returned, never retried and only reach the server log at debug
// level. Telemetry must not influence what the user sees.
//
// Wait blocks until in-flight sends finish. It exists for tests and graceful
// shutdown; request handlers never call it.
package telemetry

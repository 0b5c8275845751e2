// Package acl keeps receiver wire formats and receiver errors out of the
// domain.
//
// Outbound reminders are translated into the receiver's payload here, and
// whatever the receiver answers is mapped back with [MapHTTPError]:
//
//   - 400 or 422 becomes a [domain.ErrValidation]; resending the same
//     reminder will not help.
//   - Any other status, an open circuit ([clients.ErrCircuitOpen]) or
//     exhausted retries ([clients.ErrMaxRetriesExceeded]) becomes a
//     [domain.ErrUnavailable].
//
// [WebhookSink] is the only receiver today. New ones embed [BaseAdapter].
package acl

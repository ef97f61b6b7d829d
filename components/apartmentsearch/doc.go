// Package apartmentsearch hosts the apartment-search intake form over
// net/http. GET on the base path starts a session and renders the form; the
// browser runtime then posts every input event to the session, which answers
// with the updated snapshot. Sessions end on submit or when the visitor
// navigates away, and idle sessions expire.
//
// Routes (relative to the base path):
//
//	GET    /                        create a session, render the form
//	GET    /sessions/{id}           JSON snapshot
//	DELETE /sessions/{id}           abandon the session
//	POST   /sessions/{id}/events    apply one intake.Event
//	POST   /sessions/{id}/submit    submit and discard the session
//	GET    /openapi.json            OpenAPI document of these routes
//	GET    /schema/submission.json  JSON Schema of the submission record
//	GET    /assets/{file}           stylesheet and runtime script
package apartmentsearch

// Package session hosts one intake engine per browser session. Sessions live
// in an expiring LRU keyed by uuid and move through a small lifecycle:
// active, then submitted or abandoned. Closed sessions reject every further
// event.
package session

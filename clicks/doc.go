// Package clicks persists click events on profile links and exposes range
// reads over them. Events are append-only: nothing here updates or deletes a
// row, and deleting a profile leaves its events in place.
package clicks

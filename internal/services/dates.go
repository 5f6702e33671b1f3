package services

import "time"

// dateOnly truncates t to midnight UTC. Due-date arithmetic is day-granular
// and every stored or compared date goes through this normalization, so the
// (document, due date, channel) uniqueness key stays stable across passes.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

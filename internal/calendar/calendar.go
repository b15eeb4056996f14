// Package calendar centralizes the Colombia business-day arithmetic used by
// quota compliance, convenio progress and the RFM anchor date. Keeping it in
// one place is deliberate: the "last finalized month" rule and holiday
// handling are the two easiest things to get subtly wrong.
package calendar

import (
	"sync"
	"time"
)

// National holidays (static list, loaded once). Overridable via SetFestivos
// for deployments that maintain their own table.
var defaultFestivos = []string{
	// 2024
	"2024-01-01", "2024-01-08", "2024-03-25", "2024-03-28", "2024-03-29",
	"2024-05-01", "2024-05-13", "2024-06-03", "2024-06-10", "2024-07-01",
	"2024-07-20", "2024-08-07", "2024-08-19", "2024-10-14", "2024-11-04",
	"2024-11-11", "2024-12-08", "2024-12-25",
	// 2025
	"2025-01-01", "2025-01-06", "2025-03-24", "2025-04-17", "2025-04-18",
	"2025-05-01", "2025-06-02", "2025-06-23", "2025-06-30", "2025-07-20",
	"2025-08-07", "2025-08-18", "2025-10-13", "2025-11-03", "2025-11-17",
	"2025-12-08", "2025-12-25",
	// 2026
	"2026-01-01", "2026-01-12", "2026-03-23", "2026-04-02", "2026-04-03",
	"2026-05-01", "2026-05-18", "2026-06-08", "2026-06-15", "2026-06-29",
	"2026-07-20", "2026-08-07", "2026-08-17", "2026-10-12", "2026-11-02",
	"2026-11-16", "2026-12-08", "2026-12-25",
}

var (
	festivosMu sync.RWMutex
	festivos   = buildSet(defaultFestivos)
)

func buildSet(dates []string) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// SetFestivos replaces the holiday table (HOLIDAYS_FILE override).
func SetFestivos(dates []time.Time) {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d.Format("2006-01-02")] = struct{}{}
	}
	festivosMu.Lock()
	festivos = set
	festivosMu.Unlock()
}

// ResetFestivos restores the built-in table. Used by tests.
func ResetFestivos() {
	festivosMu.Lock()
	festivos = buildSet(defaultFestivos)
	festivosMu.Unlock()
}

func EsFestivo(t time.Time) bool {
	festivosMu.RLock()
	_, ok := festivos[t.Format("2006-01-02")]
	festivosMu.RUnlock()
	return ok
}

// EsHabil reports whether t is a business day: Monday–Friday and not a holiday.
func EsHabil(t time.Time) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !EsFestivo(t)
}

// DiasHabilesMes counts the business days of a calendar month.
func DiasHabilesMes(year int, month time.Month) int {
	total := 0
	for d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC); d.Month() == month; d = d.AddDate(0, 0, 1) {
		if EsHabil(d) {
			total++
		}
	}
	return total
}

// DiasHabilesTranscurridos counts the business days of (year, month) up to and
// including ref. Before the month it is 0; after it, the whole month.
func DiasHabilesTranscurridos(year int, month time.Month, ref time.Time) int {
	inicio := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	if refDay.Before(inicio) {
		return 0
	}
	total := 0
	for d := inicio; d.Month() == month && !d.After(refDay); d = d.AddDate(0, 0, 1) {
		if EsHabil(d) {
			total++
		}
	}
	return total
}

// UltimoDiaHabil returns the last business day of the month.
func UltimoDiaHabil(year int, month time.Month) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
	for !EsHabil(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// MesFinalizado reports whether the month is finalized as of ref: a month is
// finalized the day after its last business day.
func MesFinalizado(year int, month time.Month, ref time.Time) bool {
	ultimo := UltimoDiaHabil(year, month)
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return refDay.After(ultimo)
}

// FechaAncla returns T*, the end of the last fully finalized month as of ref:
// the last day of the previous month while ref is before the last business day
// of its own month, and the last day of the current month from that day on.
func FechaAncla(ref time.Time) time.Time {
	ultimo := UltimoDiaHabil(ref.Year(), ref.Month())
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	if refDay.Before(ultimo) {
		return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	}
	return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
}

// DiasHabilesRango counts business days in [desde, hasta], inclusive.
func DiasHabilesRango(desde, hasta time.Time) int {
	d := time.Date(desde.Year(), desde.Month(), desde.Day(), 0, 0, 0, 0, time.UTC)
	fin := time.Date(hasta.Year(), hasta.Month(), hasta.Day(), 0, 0, 0, 0, time.UTC)
	total := 0
	for ; !d.After(fin); d = d.AddDate(0, 0, 1) {
		if EsHabil(d) {
			total++
		}
	}
	return total
}

// DiasHabilesRangoHasta counts business days in [desde, min(hasta, ref)].
func DiasHabilesRangoHasta(desde, hasta, ref time.Time) int {
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	if refDay.Before(desde) {
		return 0
	}
	if refDay.After(hasta) {
		refDay = hasta
	}
	return DiasHabilesRango(desde, refDay)
}

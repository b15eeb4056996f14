package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Localized names. The source systems and every downstream consumer speak
// Spanish; weekday ordering elsewhere relies on these exact labels.
var (
	nombresMes = [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	nombresDia = map[time.Weekday]string{
		time.Monday:    "Lunes",
		time.Tuesday:   "Martes",
		time.Wednesday: "Miércoles",
		time.Thursday:  "Jueves",
		time.Friday:    "Viernes",
		time.Saturday:  "Sábado",
		time.Sunday:    "Domingo",
	}
)

// SoloDigitos strips everything but digits from a NIT.
func SoloDigitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var formatosFecha = []string{"20060102", "02/01/2006", "2006-01-02", time.RFC3339}

// ParseFecha accepts the date spellings seen in the sources: YYYYMMDD,
// DD/MM/YYYY, YYYY-MM-DD and RFC 3339.
func ParseFecha(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, f := range formatosFecha {
		if t, err := time.Parse(f, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ANumero coerces a loosely typed source value to float64; anything
// unparseable becomes 0 (on_error -> 0 rule).
func ANumero(v interface{}) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(n, ",", "")), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// ADecimal coerces a source value to decimal.Decimal with the same
// on_error -> 0 rule.
func ADecimal(v interface{}) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(n, ",", "")))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.NewFromFloat(ANumero(v))
	}
}

// AEntero coerces to int via ANumero.
func AEntero(v interface{}) int { return int(ANumero(v)) }

// ATexto coerces to a trimmed string.
func ATexto(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", s))
	}
}

// Mes formats YYYY-MM.
func Mes(t time.Time) string { return t.Format("2006-01") }

// MesNombre formats "2025-07 Julio".
func MesNombre(t time.Time) string {
	return t.Format("2006-01") + " " + nombresMes[int(t.Month())-1]
}

// DiaSemana returns the localized weekday name.
func DiaSemana(t time.Time) string { return nombresDia[t.Weekday()] }

// ClienteCompleto composes the display identity "nombre – razon", falling
// back to the bare name when the commercial name is empty.
func ClienteCompleto(nombre, razon string) string {
	if razon == "" {
		return nombre
	}
	return nombre + " – " + razon
}

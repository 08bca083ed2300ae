// timeutil.go
package timeutil

import (
	"errors"
	"time"
)

// Formato canónico persistido: RFC3339 con offset explícito. Es el único
// formato que toca el store; las proyecciones de display salen de acá y
// nunca vuelven.
const (
	DateLayout    = "2006-01-02"
	TimeLayout    = "15:04"
	DisplayLayout = "02 Jan 2006 3:04 PM"
)

// El arribo se deriva al guardar, no al leer: booking - 10 minutos.
const ArrivalOffset = -10 * time.Minute

var ErrMissingDateTime = errors.New("la fecha y la hora son obligatorias")

// ComposeBooking arma el instante de booking a partir del draft
// (día calendario + hora:minuto) en la zona configurada.
func ComposeBooking(date, timeOfDay string, loc *time.Location) (time.Time, error) {
	if date == "" || timeOfDay == "" {
		return time.Time{}, ErrMissingDateTime
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+timeOfDay, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func Canonical(t time.Time) string {
	return t.Format(time.RFC3339)
}

func ParseCanonical(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func Arrival(booking time.Time) time.Time {
	return booking.Add(ArrivalOffset)
}

// Display proyecta un timestamp canónico a "02 Jan 2006 3:04 PM".
// Es pura e idempotente; para strings no parseables devuelve "-" como
// hacía la tabla original.
func Display(canonical string) string {
	if canonical == "" {
		return "-"
	}
	t, err := ParseCanonical(canonical)
	if err != nil {
		return "-"
	}
	return t.Format(DisplayLayout)
}

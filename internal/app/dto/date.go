package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vacationrental/internal/domain/shared/daterange"
	"vacationrental/internal/domain/shared/errs"
)

const DateLayout = "2006-01-02"

// Date is a calendar day rendered as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: daterange.Day(t)}
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and keeps only the calendar day.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, fmt.Errorf("%w: date is required", errs.ErrInvalidInput)
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return NewDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD or RFC3339", errs.ErrInvalidInput, raw)
	}
	// The wall-clock date is what the caller meant, whatever the offset.
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}, nil
}

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: date must be a string", errs.ErrInvalidInput)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

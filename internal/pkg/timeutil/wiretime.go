package timeutil

import (
	"fmt"
	"strconv"
	"time"
)

// WireTime is a time.Time that marshals in the wire layout. It is used for
// every timestamp crossing the API boundary.
type WireTime struct {
	time.Time
}

// NewWireTime truncates t to whole seconds, the precision the wire carries.
func NewWireTime(t time.Time) WireTime {
	return WireTime{t.Truncate(time.Second)}
}

func (w WireTime) MarshalJSON() ([]byte, error) {
	if w.IsZero() {
		return []byte("null"), nil
	}
	s, err := FormatWire(w.Time)
	if err != nil {
		return nil, err
	}
	return []byte(strconv.Quote(s)), nil
}

func (w *WireTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		w.Time = time.Time{}
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, data)
	}
	t, err := ParseWire(s)
	if err != nil {
		return err
	}
	w.Time = t
	return nil
}

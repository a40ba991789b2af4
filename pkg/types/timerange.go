package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTimeRange возвращается при некорректном формате диапазона (ожидается HH:MM-HH:MM)
	ErrInvalidTimeRange = errors.New("invalid time range format")
)

// TimeRange временной диапазон слота, распарсенный из текстовой метки
// Метки слотов приходят в свободном формате ("10:00-11:00" или "10:00")
type TimeRange struct {
	Start TimeString
	End   TimeString // Пустое значение, если метка содержит только время начала
}

// ParseTimeRange разбирает текстовую метку слота
// Поддерживаемые форматы:
//   - "10:00-11:00" - полный диапазон
//   - "10:00"       - только время начала
func ParseTimeRange(label string) (TimeRange, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return TimeRange{}, fmt.Errorf("%w: empty label", ErrInvalidTimeRange)
	}

	parts := strings.SplitN(label, "-", 2)

	start, err := NewTimeStringFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrInvalidTimeRange, label)
	}

	if len(parts) == 1 {
		return TimeRange{Start: start}, nil
	}

	end, err := NewTimeStringFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrInvalidTimeRange, label)
	}

	if !start.IsBefore(end) {
		return TimeRange{}, fmt.Errorf("%w: start must be before end in %q", ErrInvalidTimeRange, label)
	}

	return TimeRange{Start: start, End: end}, nil
}

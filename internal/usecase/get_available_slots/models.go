package get_available_slots

import (
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
)

// Request модель запроса доступных слотов
type Request struct {
	SessionID int64
	Date      *time.Time // Обязательна для multi-slot сессий; игнорируется для fixed-instant
}

// Response модель ответа со слотами и остатками мест
type Response struct {
	SessionID int64
	Kind      domain.SessionKind
	Slots     []domain.SlotAvailability

	// Метки слотов со свободными местами в порядке объявления;
	// nil для fixed-instant сессий
	AvailableTimeSlots []string
}

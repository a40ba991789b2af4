package reserve_booking

import "time"

// Request модель запроса на бронирование места в демо-сессии
type Request struct {
	StudentID    int64
	SessionID    int64
	SelectedDate *time.Time // Обязательно для multi-slot сессий; nil для fixed-instant
	SelectedTime *string    // Метка слота, например "10:00-11:00"; nil для fixed-instant
	StudentName  string
	StudentEmail string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID           int64
	SessionID    int64
	StudentID    int64
	StudentName  string
	StudentEmail string
	SelectedDate *time.Time
	SelectedTime *string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package get_session_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	"github.com/m04kA/CIM-DemoBookingService/internal/service/bookings/models"
)

// ToServiceRequest собирает запрос сервиса из path и query параметров
func ToServiceRequest(sessionID, userID int64, dateStr, timeStr, statusStr, includeInactiveStr string) (*models.SessionBookingsRequest, error) {
	req := &models.SessionBookingsRequest{
		UserID:    userID,
		SessionID: sessionID,
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse date: %w", err)
		}
		req.SelectedDate = &date
	}

	if timeStr != "" {
		req.SelectedTime = &timeStr
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("parse includeInactive: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}

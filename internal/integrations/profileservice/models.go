package profileservice

// Profile профиль коучингового центра из ProfileService
type Profile struct {
	ID               int64   `json:"id"`
	OrganizationID   int64   `json:"organizationId"`
	OrganizationName string  `json:"organizationName"`
	City             string  `json:"city"`
	OperatorIDs      []int64 `json:"operatorIds"` // Пользователи, управляющие профилем
}

// IsOperator проверяет, что пользователь управляет этим профилем
func (p *Profile) IsOperator(userID int64) bool {
	for _, id := range p.OperatorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

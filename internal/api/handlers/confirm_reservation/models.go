package confirm_reservation

// ConfirmReservationRequest HTTP request model, тело необязательно
type ConfirmReservationRequest struct {
	Force bool `json:"force"`
}

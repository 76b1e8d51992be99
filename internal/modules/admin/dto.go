package admin

// Statistics is the admin dashboard snapshot.
type Statistics struct {
	Users               int64 `json:"users"`
	Rooms               int64 `json:"rooms"`
	Reservations        int64 `json:"reservations"`
	PendingReservations int64 `json:"pending_reservations"`
	CreatedToday        int64 `json:"created_today"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin user"`
}

package catalog

import "time"

type RoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Capacity    int    `json:"capacity" binding:"gte=0"`
	Type        string `json:"type"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

type EquipmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

// BusySlot is one occupied interval on a room's day schedule. Subject and
// status are included so a schedule view can label the slot.
type BusySlot struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Subject string    `json:"subject"`
	Status  string    `json:"status"`
}

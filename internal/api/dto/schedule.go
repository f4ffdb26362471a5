package dto

type ScheduleEntryResponse struct {
	ID         int64  `json:"id"`
	JobID      *int64 `json:"job_id,omitempty"`
	DriverID   *int64 `json:"driver_id,omitempty"`
	VehicleID  *int64 `json:"vehicle_id,omitempty"`
	ClientID   *int64 `json:"client_id,omitempty"`
	ClientName string `json:"client_name"`

	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`

	PickupAddress  string   `json:"pickup_address"`
	PickupCity     string   `json:"pickup_city"`
	PickupLat      *float64 `json:"pickup_lat,omitempty"`
	PickupLng      *float64 `json:"pickup_lng,omitempty"`
	DropoffAddress string   `json:"dropoff_address"`
	DropoffCity    string   `json:"dropoff_city"`
	DropoffLat     *float64 `json:"dropoff_lat,omitempty"`
	DropoffLng     *float64 `json:"dropoff_lng,omitempty"`

	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type DayScheduleResponse struct {
	Date    string                  `json:"date"`
	Entries []ScheduleEntryResponse `json:"entries"`
}

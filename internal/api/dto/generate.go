package dto

type GenerateRequest struct {
	// Date of the day to plan, "2006-01-02".
	Date string `json:"date"`

	// Mode selects the planner: "heuristic" (default) runs the insertion
	// search over pending jobs, "templates" materializes the weekday's
	// standing templates.
	Mode string `json:"mode"`

	// Overwrite clears a schedule's existing entries before a heuristic run.
	Overwrite bool `json:"overwrite"`

	// Force rebuilds an already-materialized schedule in templates mode.
	Force bool `json:"force"`
}

type UnscheduledJobResponse struct {
	JobID  int64  `json:"job_id"`
	Reason string `json:"reason"`
}

type GenerationMetricsResponse struct {
	LateMinutes int `json:"late_minutes"`
	DriversUsed int `json:"drivers_used"`
}

type GenerateResponse struct {
	RunID       string                    `json:"run_id"`
	Date        string                    `json:"date"`
	ScheduleID  int64                     `json:"schedule_id"`
	Created     int                       `json:"created"`
	Unscheduled []UnscheduledJobResponse  `json:"unscheduled"`
	Metrics     GenerationMetricsResponse `json:"metrics"`
}

type MaterializeResponse struct {
	OK         bool   `json:"ok"`
	Date       string `json:"date"`
	ScheduleID int64  `json:"schedule_id,omitempty"`
	Created    int    `json:"created"`
	Message    string `json:"message"`
}

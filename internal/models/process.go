package models

import "time"

// Process is one row of a process listing before it is laid out as text.
type Process struct {
	PID           int           `json:"pid"`
	Name          string        `json:"name"`
	SessionName   string        `json:"session_name"`
	SessionNumber int           `json:"session_number"`
	MemRSS        uint64        `json:"mem_rss"`
	Status        string        `json:"status"`
	User          string        `json:"user"`
	CPUTime       time.Duration `json:"cpu_time"`
	WindowTitle   string        `json:"window_title"`
}

type ProcessList struct {
	Processes []Process `json:"processes"`
	Total     int       `json:"total"`
	Running   int       `json:"running"`
	Sleeping  int       `json:"sleeping"`
	Zombie    int       `json:"zombie"`
}

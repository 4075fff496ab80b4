package dto

import "time"

type DirectoryStatusResponse struct {
	State      string     `json:"state"`
	Endpoint   string     `json:"endpoint"`
	Imported   int        `json:"imported"`
	Error      string     `json:"error,omitempty"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

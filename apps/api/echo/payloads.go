package echoapi

import (
	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/staff"
)

// Requests

type AttendanceRequest struct {
	Attendance []roster.AttendanceEntry `json:"attendance"`
}

// Responses

type MessageResponse struct {
	Message string `json:"message"`
}

type SignupResponse struct {
	Message string `json:"message"`
	StaffID string `json:"staffId"`
}

type LoginResponse struct {
	Message string      `json:"message"`
	Staff   staff.Staff `json:"staff"`
	Class   staff.Class `json:"class"`
}

type ImportResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

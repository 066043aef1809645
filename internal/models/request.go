package models

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// Pending reports whether the request may still transition. Accept, reject
// and cancel are only ever offered for pending requests.
func (s RequestStatus) Pending() bool {
	return s == StatusPending
}

type MatchRequest struct {
	ID       int           `json:"id"`
	MentorID int           `json:"mentorId"`
	MenteeID int           `json:"menteeId"`
	Message  string        `json:"message"`
	Status   RequestStatus `json:"status"`
}

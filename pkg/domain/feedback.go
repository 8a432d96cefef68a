package domain

// Feedback is a visitor's rating of the museum.
type Feedback struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Rating      int       `json:"rating"` // 1-5
	Message     string    `json:"message"`
	SubmittedAt Timestamp `json:"submitted_at"`
}

// FeedbackInput is the payload for submitting feedback.
type FeedbackInput struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Message string `json:"message" validate:"required,max=2000"`
}

// Visit records a user entering a room.
type Visit struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	VisitedAt   Timestamp `json:"visited_at"`
	RoomVisited string    `json:"room_visited"`
}

// VisitStats aggregates visits for the admin dashboard.
type VisitStats struct {
	RoomStatistics       map[string]int `json:"room_statistics"`
	TotalVisits          int            `json:"total_visits"`
	UniqueUsers          int            `json:"unique_users"`
	AverageVisitDuration float64        `json:"average_visit_duration"` // minutes
}

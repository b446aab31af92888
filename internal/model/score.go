package model

import "time"

// Score is one saved leaderboard entry.
type Score struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Username  string    `json:"username" bson:"username"`
	Score     int       `json:"score" bson:"score"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// SubmitScoreRequest is the request body for saving a score.
type SubmitScoreRequest struct {
	Username string `json:"username"`
	Score    *int   `json:"score"`
}

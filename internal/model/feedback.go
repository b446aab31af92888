package model

import "time"

// Feedback is one piece of user-submitted feedback.
type Feedback struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Username  string    `json:"username,omitempty" bson:"username,omitempty"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// SubmitFeedbackRequest is the request body for submitting feedback.
type SubmitFeedbackRequest struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

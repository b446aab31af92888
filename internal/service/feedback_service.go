package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"versequest/internal/model"
	"versequest/internal/repository"
)

// ErrEmptyFeedback is returned when a submission has no text.
var ErrEmptyFeedback = errors.New("feedback text is required")

// FeedbackService handles user feedback capture and admin review.
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepo
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(feedbackRepo repository.FeedbackRepo) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo}
}

// Submit stores one piece of feedback.
func (s *FeedbackService) Submit(ctx context.Context, username, text string) (*model.Feedback, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyFeedback
	}

	entry := &model.Feedback{
		Username: strings.TrimSpace(username),
		Text:     text,
	}
	if err := s.feedbackRepo.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return entry, nil
}

// List returns all feedback, newest first.
func (s *FeedbackService) List(ctx context.Context) ([]model.Feedback, error) {
	return s.feedbackRepo.List(ctx)
}

// Delete removes one feedback entry by ID.
func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	if err := s.feedbackRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	return nil
}

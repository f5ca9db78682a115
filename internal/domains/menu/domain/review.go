package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5

	AnonymousReviewer = "Anonymous User"
)

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrEmptyComment    = errors.New("review comment is required")
	ErrMissingReviewer = errors.New("reviewer identity is required")
	ErrDuplicateReview = errors.New("item already reviewed by this reviewer")
)

// Review is a single customer rating. Reviews are append-only.
type Review struct {
	ReviewerID   string
	ReviewerName string
	Rating       int
	Comment      string
	CreatedAt    time.Time
}

// NewReview validates and builds a review.
func NewReview(reviewerID, reviewerName string, rating int, comment string, createdAt time.Time) (Review, error) {
	if strings.TrimSpace(reviewerID) == "" {
		return Review{}, ErrMissingReviewer
	}
	if rating < MinRating || rating > MaxRating {
		return Review{}, ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return Review{}, ErrEmptyComment
	}
	reviewerName = strings.TrimSpace(reviewerName)
	if reviewerName == "" {
		reviewerName = AnonymousReviewer
	}
	return Review{
		ReviewerID:   reviewerID,
		ReviewerName: reviewerName,
		Rating:       rating,
		Comment:      comment,
		CreatedAt:    createdAt,
	}, nil
}

// Rating is the aggregate over an item's reviews. Count == 0 means unrated.
type Rating struct {
	Average float64
	Count   int
}

// Unrated reports whether no review contributed to the aggregate.
func (r Rating) Unrated() bool {
	return r.Count == 0
}

// AverageOf computes the arithmetic mean of every review rating.
func AverageOf(reviews []Review) Rating {
	if len(reviews) == 0 {
		return Rating{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return Rating{
		Average: float64(sum) / float64(len(reviews)),
		Count:   len(reviews),
	}
}

package lifecycle

import "alcyxob/peer-review/internal/domain"

const maxRatingTenths = 50 // 5.0 stars

// AverageRating returns the mean of ratings rounded half-up to one decimal,
// or nil when there are no ratings.
func AverageRating(ratings []int) *float64 {
	n := len(ratings)
	if n == 0 {
		return nil
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	// round(sum/n, 1) == floor((20*sum + n) / (2n)) / 10, kept in integers
	tenths := floorDiv(20*sum+n, 2*n)
	avg := float64(tenths) / 10
	return &avg
}

// RatingFromScore maps a 0-100 score onto the 0-5 star scale at one decimal,
// rounding half-up and clamping to [0, 5].
func RatingFromScore(score int) float64 {
	// score/20 stars is score/2 tenths; half-up rounding is floor((score+1)/2)
	tenths := floorDiv(score+1, 2)
	return float64(clamp(tenths, 0, maxRatingTenths)) / 10
}

// ApplyReviews recomputes the project's rating and status from the ratings
// of all its reviews.
func ApplyReviews(p *domain.Project, ratings []int) {
	p.Rating = AverageRating(ratings)
	p.Status = StatusAfterReview(p.Status, len(ratings) > 0)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

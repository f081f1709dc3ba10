package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Rating is a user's review of a product. At most one rating exists per
// (product, user) pair; resubmission overwrites the stored score and text.
type Rating struct {
	ID        uuid.UUID `json:"ratingId" db:"id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Review    string    `json:"review" db:"review"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Review is a rating joined with product and reviewer details for the
// admin review listing.
type Review struct {
	Rating
	ProductName string `json:"productName"`
	UserName    string `json:"userFullName"`
	UserEmail   string `json:"userEmail"`
}

// RatingAggregate is the running average and count maintained on a product.
type RatingAggregate struct {
	Average int
	Count   int
}

// AggregateRatings computes the integer-rounded average over the given
// scores. An empty set yields a zero aggregate.
func AggregateRatings(scores []int) RatingAggregate {
	if len(scores) == 0 {
		return RatingAggregate{}
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	avg := int(math.Round(float64(sum) / float64(len(scores))))
	return RatingAggregate{Average: avg, Count: len(scores)}
}

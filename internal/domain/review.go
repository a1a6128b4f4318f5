package domain

import "time"

type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PackageID string    `json:"packageId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReviewSummary struct {
	Reviews       []Review `json:"reviews"`
	Count         int      `json:"count"`
	AverageRating float64  `json:"averageRating"`
}

type Wishlist struct {
	UserID   string    `json:"userId"`
	Packages []Package `json:"packages"`
}

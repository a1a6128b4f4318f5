package domain

import "time"

type PackageStatus string

const (
	PackageStatusActive  PackageStatus = "Active"
	PackageStatusPending PackageStatus = "Pending"
	PackageStatusExpired PackageStatus = "Expired"
)

func (s PackageStatus) Valid() bool {
	switch s {
	case PackageStatusActive, PackageStatusPending, PackageStatusExpired:
		return true
	}
	return false
}

type Package struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Location     string        `json:"location"`
	Duration     string        `json:"duration"`
	Category     string        `json:"category"`
	RegularPrice float64       `json:"regularPrice"`
	SalePrice    float64       `json:"salePrice"`
	AdultPrice   float64       `json:"adultPrice"`
	ChildPrice   float64       `json:"childPrice"`
	CouplePrice  float64       `json:"couplePrice"`
	Gallery      []string      `json:"gallery"`
	Status       PackageStatus `json:"status"`
	Featured     bool          `json:"featured"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type PackageFilter struct {
	Status   PackageStatus
	Category string
	Search   string
	Page     int
	Limit    int
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Normalize clamps paging parameters to their defaults and bounds.
func (f PackageFilter) Normalize() PackageFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	return f
}

func (f PackageFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type PackagePage struct {
	Packages   []Package `json:"packages"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

package domain

import (
	"encoding/json"
	"time"
)

type Activity struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	UserID    string          `json:"userId,omitempty"`
	PackageID string          `json:"packageId,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type CountEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type ActivityReport struct {
	From        time.Time      `json:"from"`
	To          time.Time      `json:"to"`
	Total       int            `json:"total"`
	ByType      map[string]int `json:"byType"`
	ByDay       map[string]int `json:"byDay"`
	TopUsers    []CountEntry   `json:"topUsers"`
	TopPackages []CountEntry   `json:"topPackages"`
}

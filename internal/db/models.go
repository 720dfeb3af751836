package db

import "database/sql"

type PickupEvent struct {
	EventDate   string
	LocationID  string
	Street      string
	District    string
	Description sql.NullString
	StartTime   string
	EndTime     string
}

type StopCoordinate struct {
	LocationID string
	Latitude   float64
	Longitude  float64
}

type Subscription struct {
	Email            string
	LocationID       string
	Authenticated    bool
	UnsubscribeToken string
}

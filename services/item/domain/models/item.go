package models

import "time"

// Item is the only persisted aggregate. ID and CreatedAt are assigned by
// storage on insert; none of the fields change afterwards.
type Item struct {
	ID        int64
	Name      ItemName
	CreatedAt time.Time
}

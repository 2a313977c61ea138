package db

import "database/sql"

// ItemsItem mirrors a row of the items table. created_at has a default but
// no NOT NULL constraint, hence NullTime.
type ItemsItem struct {
	ID        int64
	Name      string
	CreatedAt sql.NullTime
}

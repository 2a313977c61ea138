package db

import "context"

const insertItem = `
INSERT INTO items (name) VALUES ($1)
RETURNING id, name, created_at
`

// InsertItem inserts a row and returns it with the storage-assigned columns.
func (q *Queries) InsertItem(ctx context.Context, name string) (ItemsItem, error) {
	var i ItemsItem
	err := q.db.QueryRowContext(ctx, insertItem, name).Scan(&i.ID, &i.Name, &i.CreatedAt)
	return i, err
}

const listRecentItems = `
SELECT id, name, created_at
FROM items
ORDER BY created_at DESC, id DESC
LIMIT $1
`

// ListRecentItems returns up to limit rows, newest first.
func (q *Queries) ListRecentItems(ctx context.Context, limit int32) ([]ItemsItem, error) {
	rows, err := q.db.QueryContext(ctx, listRecentItems, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []ItemsItem{}
	for rows.Next() {
		var i ItemsItem
		if err := rows.Scan(&i.ID, &i.Name, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// internal/network/model.go
//
// Row model for the `network` table.  A network owns its structure
// entries: the soft delete in the repository removes them in the same
// transaction, so entries never outlive their network.
package network

import "time"

// Record mirrors one row in the persistent `network` table.  DeletedAt
// non-NULL hides the network from every listing and read path.
type Record struct {
	ID          uint64     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

package models

import "time"

// Staff roles. Managers can do everything, cashiers run the entry surface and
// the closing, kitchen accounts drive the kitchen display.
const (
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleKitchen = "kitchen"
)

// User is a staff account. The only durable record in the system; everything
// the ledger owns stays in memory.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255); not null"`
	Email     string `gorm:"type:varchar(255); unique;not null"`
	Password  string `gorm:"type:varchar(255); not null"`
	Role      string `gorm:"type:varchar(20); not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidRole reports whether role is one of the staff roles.
func ValidRole(role string) bool {
	return role == RoleManager || role == RoleCashier || role == RoleKitchen
}

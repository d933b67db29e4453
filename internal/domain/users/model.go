package users

import "time"

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	FullName     string  `json:"fullName"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Password     *string `gorm:"" json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"-"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`
	Role         string  `json:"role"`
	IsVerified   bool    `json:"isVerified"`

	StripeCustomerID *string `gorm:"column:stripe_customer_id;uniqueIndex:idx_users_stripe_customer_id" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicProfile is the shape broadcast to project rooms.
type PublicProfile struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, FullName: u.FullName}
}

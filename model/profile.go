package model

import "time"

type Profile struct {
	ProfileID           string     `bson:"profile_id" json:"profile_id"`
	Email               string     `bson:"email" json:"email" validate:"required,email"`
	FullName            string     `bson:"full_name" json:"full_name"`
	Password            string     `bson:"password" json:"-"` // Hashed password field
	Role                string     `bson:"role" json:"role"`  // user, admin, super_admin
	FailedLoginAttempts int        `bson:"failed_login_attempts" json:"failed_login_attempts"`
	LockedUntil         *time.Time `bson:"locked_until" json:"locked_until,omitempty"`
	CreatedAt           time.Time  `bson:"created_at" json:"created_at"`
	LastSignInAt        *time.Time `bson:"last_sign_in_at" json:"last_sign_in_at,omitempty"`
	IsActive            bool       `bson:"is_active" json:"is_active"`
}

// LoginAttemptState is the slice of a profile the login throttler reads
// before attempting credential verification.
type LoginAttemptState struct {
	FailedLoginAttempts int        `bson:"failed_login_attempts" json:"failed_login_attempts"`
	LockedUntil         *time.Time `bson:"locked_until" json:"locked_until,omitempty"`
}

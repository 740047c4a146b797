package model

import "time"

// ClientProfile is a tenant-level login account, distinct from platform
// user profiles. A subset of customer-facing logins authenticate against
// these rows instead of the profiles collection.
type ClientProfile struct {
	ClientID   string     `bson:"client_id" json:"client_id"`
	ClientName string     `bson:"client_name" json:"client_name"`
	Email      string     `bson:"email" json:"email"`
	Phone      string     `bson:"phone" json:"phone"`
	Password   string     `bson:"password" json:"-"`
	IsActive   bool       `bson:"is_active" json:"is_active"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	LastLogin  *time.Time `bson:"last_login" json:"last_login,omitempty"`
}

// ClientProfileSession is the persisted record for an authenticated client
// profile. It is stored as a single serialized JSON value under the
// clientProfile key and adopted by the session bootstrapper on start.
type ClientProfileSession struct {
	ID         string `json:"id"`
	ClientName string `json:"client_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

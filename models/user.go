package models

import "time"

type User struct {
	UserID        string            `json:"userid" bson:"userid"`
	Username      string            `json:"username" bson:"username"`
	Email         string            `json:"email" bson:"email"`
	Password      string            `json:"-" bson:"password"`
	Role          []string          `json:"role" bson:"role"`
	Name          string            `json:"name,omitempty" bson:"name,omitempty"`
	Bio           string            `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar        string            `json:"avatar" bson:"avatar"`
	AvatarThumb   string            `json:"avatar_thumb,omitempty" bson:"avatar_thumb,omitempty"`
	HomeCurrency  string            `json:"home_currency,omitempty" bson:"home_currency,omitempty"`
	SocialLinks   map[string]string `json:"social_links,omitempty" bson:"social_links,omitempty"`
	EmailVerified bool              `json:"email_verified" bson:"email_verified"`
	LastLogin     time.Time         `json:"last_login" bson:"last_login"`
	RefreshToken  string            `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time         `json:"-" bson:"refresh_expiry,omitempty"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" bson:"updated_at"`
	Deleted       bool              `json:"-" bson:"deleted,omitempty"`
}

// UserProfileResponse is the public view of a user.
type UserProfileResponse struct {
	UserID       string            `json:"userid" bson:"userid"`
	Username     string            `json:"username" bson:"username"`
	Name         string            `json:"name,omitempty" bson:"name,omitempty"`
	Bio          string            `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar       string            `json:"avatar" bson:"avatar"`
	AvatarThumb  string            `json:"avatar_thumb,omitempty" bson:"avatar_thumb,omitempty"`
	HomeCurrency string            `json:"home_currency,omitempty" bson:"home_currency,omitempty"`
	SocialLinks  map[string]string `json:"social_links,omitempty" bson:"social_links,omitempty"`
	LastLogin    time.Time         `json:"last_login" bson:"last_login"`
}

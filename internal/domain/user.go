package domain

import "time"

// User 即商家的所有者，ID 由外部身份提供方分配
type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

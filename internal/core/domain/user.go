package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// MaxBioLength is the upper bound on profile bios.
const MaxBioLength = 250

// User models an account with its profile and social edges.
//
// Followers and Following hold user IDs and are kept symmetric: after any
// follow or unfollow both affected records reflect the edge, or neither does.
// A user never appears in its own lists.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"cover_image"`
	City         string    `json:"city"`
	Followers    []string  `json:"followers"`
	Following    []string  `json:"following"`
	Role         string    `json:"role"`
	IsOnline     bool      `json:"is_online"`
	LastSeen     time.Time `json:"last_seen,omitzero"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsFollowing reports whether the user already follows targetID.
func (u *User) IsFollowing(targetID string) bool {
	for _, id := range u.Following {
		if id == targetID {
			return true
		}
	}
	return false
}

// Presence is the live online state of a user, sourced from the presence
// store rather than the user document.
type Presence struct {
	Online   bool
	LastSeen time.Time
}

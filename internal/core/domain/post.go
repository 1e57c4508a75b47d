package domain

import "time"

// Comment is a single entry in a post's append-only comment list.
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is the content aggregate.
//
// City is copied from the author at creation time and never re-synced; the
// feed therefore scopes by where the author lived when the post was made.
// Likes is a set: a user ID appears at most once.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Caption   string    `json:"caption"`
	Image     string    `json:"image"`
	City      string    `json:"city"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LikedBy reports whether userID is in the post's like set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

package handler

import (
	"time"

	"github.com/citygram/citygram-api/internal/core/domain"
	"github.com/citygram/citygram-api/internal/core/ports"
)

type updateProfileRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1"`
	Username *string `json:"username" validate:"omitempty,min=1"`
	Bio      *string `json:"bio"      validate:"omitempty,max=250"`
	City     *string `json:"city"     validate:"omitempty,min=1"`
}

// profileResponse is the populated own-profile view: follow lists expanded
// into summaries instead of raw IDs.
type profileResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Username   string              `json:"username"`
	Email      string              `json:"email,omitempty"`
	Bio        string              `json:"bio"`
	Avatar     string              `json:"avatar"`
	CoverImage string              `json:"cover_image"`
	City       string              `json:"city"`
	Role       string              `json:"role"`
	IsOnline   bool                `json:"is_online"`
	LastSeen   time.Time           `json:"last_seen,omitzero"`
	Followers  []ports.UserSummary `json:"followers"`
	Following  []ports.UserSummary `json:"following"`
	CreatedAt  time.Time           `json:"created_at"`
}

func toProfileResponse(p *ports.Profile) profileResponse {
	u := p.User
	return profileResponse{
		ID:         u.ID,
		Name:       u.Name,
		Username:   u.Username,
		Email:      u.Email,
		Bio:        u.Bio,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		City:       u.City,
		Role:       u.Role,
		IsOnline:   u.IsOnline,
		LastSeen:   u.LastSeen,
		Followers:  p.Followers,
		Following:  p.Following,
		CreatedAt:  u.CreatedAt,
	}
}

type activityResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ActorID   string    `json:"actor_id"`
	PostID    string    `json:"post_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toActivityResponses(activities []*domain.Activity) []activityResponse {
	out := make([]activityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, activityResponse{
			ID:        a.ID,
			Type:      string(a.Type),
			ActorID:   a.ActorID,
			PostID:    a.PostID,
			CreatedAt: a.CreatedAt,
		})
	}
	return out
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listUsersResponse struct {
	Data       []*domain.User     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

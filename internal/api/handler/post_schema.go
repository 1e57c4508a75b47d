package handler

import (
	"time"

	"github.com/citygram/citygram-api/internal/core/domain"
	"github.com/citygram/citygram-api/internal/core/ports"
)

// createPostRequest carries the new-post form. Caption and image are both
// optional individually, but a post needs at least one of them.
type createPostRequest struct {
	Caption string `json:"caption" validate:"required_without=Image"`
	Image   string `json:"image"   validate:"required_without=Caption"`
}

// commentRequest is free text; no length or content constraints apply.
type commentRequest struct {
	Text string `json:"text"`
}

type postResponse struct {
	ID         string            `json:"id"`
	Author     ports.UserSummary `json:"author"`
	Caption    string            `json:"caption"`
	Image      string            `json:"image"`
	City       string            `json:"city"`
	Likes      []string          `json:"likes"`
	LikesCount int               `json:"likes_count"`
	Comments   []domain.Comment  `json:"comments"`
	CreatedAt  time.Time         `json:"created_at"`
}

func toPostResponse(v ports.PostView) postResponse {
	return postResponse{
		ID:         v.Post.ID,
		Author:     v.Author,
		Caption:    v.Post.Caption,
		Image:      v.Post.Image,
		City:       v.Post.City,
		Likes:      v.Post.Likes,
		LikesCount: len(v.Post.Likes),
		Comments:   v.Post.Comments,
		CreatedAt:  v.Post.CreatedAt,
	}
}

func toPostResponses(views []ports.PostView) []postResponse {
	out := make([]postResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toPostResponse(v))
	}
	return out
}

type likeResponse struct {
	Message    string `json:"message"`
	LikesCount int    `json:"likes_count"`
}

type feedResponse struct {
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	TotalPosts int64          `json:"total_posts"`
	Posts      []postResponse `json:"posts"`
}

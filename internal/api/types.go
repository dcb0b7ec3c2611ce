package api

import (
	"time"

	"github.com/joestump/studyshelf/internal/store"
)

// --- Resource types ---

// SubmitResourceRequest is the request body for POST /postResource.
// The "tags" member is read separately: it is an array of tag arrays of
// which only the last one is used.
type SubmitResourceRequest struct {
	Name          string `json:"name"`
	Author        string `json:"author"`
	URL           string `json:"url"`
	ContentType   string `json:"content_type"`
	Stage         string `json:"stage"`
	SubmitterName string `json:"submitter_name"`
	Review        string `json:"review"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
}

// ResourceResponse is the JSON representation of a resource.
type ResourceResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Author        string    `json:"author"`
	URL           string    `json:"url"`
	ContentType   string    `json:"content_type"`
	Stage         string    `json:"stage"`
	SubmitterName string    `json:"submitter_name"`
	Review        string    `json:"review"`
	ThumbnailURL  string    `json:"thumbnail_url"`
	Likes         int64     `json:"likes"`
	Tags          []string  `json:"tags,omitempty"`
	Permalink     string    `json:"permalink,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toResourceResponse(r *store.Resource) ResourceResponse {
	return ResourceResponse{
		ID:            r.ID,
		Name:          r.Name,
		Author:        r.Author,
		URL:           r.URL,
		ContentType:   r.ContentType,
		Stage:         r.Stage,
		SubmitterName: r.SubmitterName,
		Review:        r.Review,
		ThumbnailURL:  r.ThumbnailURL,
		Likes:         r.Likes,
		CreatedAt:     r.CreatedAt,
	}
}

// SubmitResourceResponse is returned by POST /postResource.
type SubmitResourceResponse struct {
	Message  string           `json:"message"`
	Resource ResourceResponse `json:"resource"`
}

// ResourceListResponse is returned by GET /resources.
type ResourceListResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

// ResourceIDListResponse is returned by the id-listing endpoints.
type ResourceIDListResponse struct {
	ResourceIDs []string `json:"resource_ids"`
}

// TagListResponse is returned by GET /tags/{resourceId}.
type TagListResponse struct {
	Tags []string `json:"tags"`
}

// --- Engagement types ---

// MessageResponse acknowledges a mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

// LikeResponse acknowledges a like or unlike with the resulting count.
type LikeResponse struct {
	Message string `json:"message"`
	Likes   int64  `json:"likes"`
}

// --- Comment types ---

// CreateCommentRequest is the request body for POST /comment.
type CreateCommentRequest struct {
	ResourceID string `json:"resource_id" validate:"required,max=36"`
	UserName   string `json:"user_name" validate:"required,max=255"`
	Comment    string `json:"comment" validate:"required"`
}

// CommentResponse is the JSON representation of a comment.
type CommentResponse struct {
	ID         int64     `json:"id"`
	ResourceID string    `json:"resource_id"`
	UserName   string    `json:"user_name"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommentListResponse is returned by GET /comments/{resourceId}, oldest first.
type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
}

// --- User types ---

// CreateUserRequest is the request body for POST /users.
type CreateUserRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// UserResponse is the JSON representation of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserListResponse is returned by GET /users.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/citygram/citygram-api/internal/core/ports"
)

// PostHandler serves content operations and the feed.
type PostHandler struct {
	posts ports.PostService
}

func NewPostHandler(posts ports.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// Create stores a new post for the viewer.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      createPostRequest  true  "Post content"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	viewerID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.posts.Create(c.Request().Context(), ports.CreatePostInput{
		AuthorID: viewerID,
		Caption:  req.Caption,
		Image:    req.Image,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPostResponse(*view))
}

// List returns every post, newest first.
//
// @Summary      List all posts
// @Tags         posts
// @Produce      json
// @Success      200  {array}  postResponse
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	views, err := h.posts.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(views))
}

// Feed returns the viewer's paginated feed: posts from followed authors and
// from the viewer's own city.
//
// @Summary      Personal feed
// @Tags         posts
// @Produce      json
// @Param        page   query     int  false  "Page (1-based, default 1)"
// @Param        limit  query     int  false  "Posts per page (default 5)"
// @Success      200    {object}  feedResponse
// @Router       /api/posts/feed [get]
func (h *PostHandler) Feed(c echo.Context) error {
	viewerID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.posts.Feed(c.Request().Context(), viewerID, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, feedResponse{
		Page:       result.Page,
		TotalPages: result.TotalPages,
		TotalPosts: result.TotalPosts,
		Posts:      toPostResponses(result.Posts),
	})
}

// Delete removes the viewer's own post.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	viewerID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	if err := h.posts.Delete(c.Request().Context(), viewerID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Post deleted"})
}

// Like toggles the viewer's like on a post.
//
// @Summary      Like or unlike a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  likeResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/posts/like/{id} [put]
func (h *PostHandler) Like(c echo.Context) error {
	viewerID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	result, err := h.posts.ToggleLike(c.Request().Context(), viewerID, c.Param("id"))
	if err != nil {
		return err
	}

	msg := "Post unliked"
	if result.Liked {
		msg = "Post liked"
	}
	return c.JSON(http.StatusOK, likeResponse{Message: msg, LikesCount: result.LikesCount})
}

// Comment appends free text to a post and returns the full comment list.
//
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Post ID"
// @Param        body  body      commentRequest  true  "Comment text"
// @Success      200   {array}   domain.Comment
// @Failure      404   {object}  map[string]string
// @Router       /api/posts/comment/{id} [post]
func (h *PostHandler) Comment(c echo.Context) error {
	viewerID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	comments, err := h.posts.AddComment(c.Request().Context(), viewerID, c.Param("id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

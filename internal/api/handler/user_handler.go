package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/citygram/citygram-api/internal/core/ports"
)

// UserHandler serves profiles, the follow graph and the activity listing.
type UserHandler struct {
	users      ports.UserService
	activities ports.ActivityService
}

func NewUserHandler(users ports.UserService, activities ports.ActivityService) *UserHandler {
	return &UserHandler{users: users, activities: activities}
}

// Me returns the viewer's own profile with populated follow lists.
//
// @Summary      Own profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	viewerID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.users.MyProfile(c.Request().Context(), viewerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// Get returns another user's public profile.
//
// @Summary      Public profile
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.Profile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Follow adds the viewer as a follower of the target user.
//
// @Summary      Follow a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/follow/{id} [put]
func (h *UserHandler) Follow(c echo.Context) error {
	viewerID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	if err := h.users.Follow(c.Request().Context(), viewerID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User followed successfully"})
}

// Unfollow removes the follow edge. Unfollowing someone not followed is a
// no-op success.
//
// @Summary      Unfollow a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Router       /api/users/unfollow/{id} [put]
func (h *UserHandler) Unfollow(c echo.Context) error {
	viewerID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	if err := h.users.Unfollow(c.Request().Context(), viewerID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User unfollowed"})
}

// Update edits the viewer's profile fields.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Router       /api/users/me [put]
func (h *UserHandler) Update(c echo.Context) error {
	viewerID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), viewerID, ports.ProfileUpdate{
		Name:     req.Name,
		Username: req.Username,
		Bio:      req.Bio,
		City:     req.City,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Activity returns the viewer's recent notifications, newest first.
//
// @Summary      Recent activity
// @Tags         users
// @Produce      json
// @Param        limit  query     int  false  "Max entries"
// @Success      200    {array}   activityResponse
// @Router       /api/users/me/activity [get]
func (h *UserHandler) Activity(c echo.Context) error {
	viewerID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	activities, err := h.activities.ListForUser(c.Request().Context(), viewerID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toActivityResponses(activities))
}

// AdminList is the role-gated paginated account listing.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Rows per page"
// @Success      200    {object}  listUsersResponse
// @Failure      403    {object}  map[string]string
// @Router       /api/admin/users [get]
func (h *UserHandler) AdminList(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.users.ListUsers(c.Request().Context(), ports.ListUsersFilter{Page: page, Limit: limit})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Data: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lppm/portal-auth/internal/core/ports"
)

// UserHandler serves the LPPM admin user-management endpoints.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns users, newest first.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending or active"
// @Param        role    query     string  false  "Role name"
// @Param        search  query     string  false  "Matches name, email or NIDN"
// @Success      200     {object}  dataResponse{data=[]userResponse}
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var in ports.ListUsersInput
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	users, err := h.userService.List(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: toUserListResponse(users)})
}

// Get returns a single user.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  dataResponse{data=userResponse}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: toUserResponse(user)})
}

// UpdateRole assigns a new role to a user.
//
// @Summary      Change user role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  dataResponse{data=userResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /users/{id}/role [patch]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := pathUserID(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userService.UpdateRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{
		Message: "role updated",
		Data:    toUserResponse(user),
	})
}

// UpdateStatus activates or deactivates a user.
//
// @Summary      Change user status
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "User ID"
// @Param        body  body      updateStatusRequest  true  "Activation flag"
// @Success      200   {object}  dataResponse{data=userResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /users/{id}/status [patch]
func (h *UserHandler) UpdateStatus(c echo.Context) error {
	id, err := pathUserID(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userService.UpdateStatus(c.Request().Context(), id, *req.IsActive)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{
		Message: "status updated",
		Data:    toUserResponse(user),
	})
}

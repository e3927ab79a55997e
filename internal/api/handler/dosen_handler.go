package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lppm/portal-auth/internal/core/ports"
)

type DosenHandler struct {
	profileService ports.ProfileService
}

func NewDosenHandler(profileService ports.ProfileService) *DosenHandler {
	return &DosenHandler{profileService: profileService}
}

// GetProfile returns the calling lecturer's profile.
//
// @Summary      Get Dosen profile
// @Tags         dosen
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dataResponse{data=dosenProfileResponse}
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /dosen/profile [get]
func (h *DosenHandler) GetProfile(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	user, err := h.profileService.GetDosenProfile(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: toDosenProfileResponse(user)})
}

// UpdateProfile changes name, NIDN or faculty. Omitted fields are left as is.
//
// @Summary      Update Dosen profile
// @Tags         dosen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  dataResponse{data=dosenProfileResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /dosen/profile [patch]
func (h *DosenHandler) UpdateProfile(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.profileService.UpdateDosenProfile(c.Request().Context(), claims.UserID, toUpdateProfileInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{
		Message: "profile updated",
		Data:    toDosenProfileResponse(user),
	})
}

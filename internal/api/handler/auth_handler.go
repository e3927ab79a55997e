package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lppm/portal-auth/internal/core/domain"
	"github.com/lppm/portal-auth/internal/core/ports"
)

// cvField is the multipart field carrying the reviewer CV.
const cvField = "cv"

type AuthHandler struct {
	authService    ports.AuthService
	profileService ports.ProfileService
	cvMaxBytes     int64
	oauthURL       string
}

type AuthHandlerConfig struct {
	CVMaxBytes     int64
	OAuthGoogleURL string
}

func NewAuthHandler(authService ports.AuthService, profileService ports.ProfileService, cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
		cvMaxBytes:     cfg.CVMaxBytes,
		oauthURL:       cfg.OAuthGoogleURL,
	}
}

// RegisterUser creates an active account through the generic path.
//
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerUserRequest  true  "Account details"
// @Success      201   {object}  dataResponse{data=registeredUserResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) RegisterUser(c echo.Context) error {
	var req registerUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.authService.RegisterUser(c.Request().Context(), toRegisterUserInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dataResponse{
		Message: "registration successful",
		Data:    toRegisteredUserResponse(user),
	})
}

// RegisterDosen creates a lecturer account awaiting LPPM approval.
//
// @Summary      Register a lecturer (Dosen)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerDosenRequest  true  "Lecturer details"
// @Success      201   {object}  dataResponse{data=registeredUserResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Router       /auth/register/dosen [post]
func (h *AuthHandler) RegisterDosen(c echo.Context) error {
	var req registerDosenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.authService.RegisterDosen(c.Request().Context(), toRegisterDosenInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dataResponse{
		Message: "registration successful, waiting for LPPM admin verification",
		Data:    toRegisteredUserResponse(user),
	})
}

// RegisterReviewer creates an external reviewer account together with the
// uploaded CV.
//
// @Summary      Register an external reviewer
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        name                 formData  string  true  "Full name"
// @Param        email                formData  string  true  "Email"
// @Param        nomor_hp             formData  string  true  "Phone number"
// @Param        instansi             formData  string  true  "Institution"
// @Param        bidang_keahlian      formData  string  true  "Field of expertise"
// @Param        pengalaman_review    formData  string  true  "Review experience"
// @Param        username             formData  string  true  "Username"
// @Param        password             formData  string  true  "Password"
// @Param        konfirmasi_password  formData  string  true  "Password confirmation"
// @Param        cv                   formData  file    true  "Curriculum vitae"
// @Success      201   {object}  dataResponse{data=registeredUserResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      413   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Router       /auth/register/reviewer [post]
func (h *AuthHandler) RegisterReviewer(c echo.Context) error {
	var req registerReviewerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	var doc *domain.Document
	fh, err := c.FormFile(cvField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// the service reports the missing document
	case err != nil:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	default:
		if h.cvMaxBytes > 0 && fh.Size > h.cvMaxBytes {
			verr := domain.NewValidationError()
			verr.Add(cvField, fmt.Sprintf("must be at most %d bytes", h.cvMaxBytes))
			return verr
		}
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("open uploaded cv: %w", err)
		}
		defer f.Close()

		doc = &domain.Document{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Content:     f,
		}
	}

	user, err := h.authService.RegisterReviewer(c.Request().Context(), toRegisterReviewerInput(req, doc))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dataResponse{
		Message: "registration successful, waiting for LPPM admin verification",
		Data:    toRegisteredUserResponse(user),
	})
}

// Login authenticates by email or NIDN and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.Login(c.Request().Context(), toLoginInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toLoginResponse(res))
}

// Me returns the profile of the authenticated caller.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dataResponse{data=meResponse}
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	user, err := h.profileService.Me(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: toMeResponse(user)})
}

// GoogleOAuth hands the browser over to the external Google sign-in flow.
//
// @Summary      Google sign-in
// @Tags         auth
// @Success      302
// @Router       /auth/oauth/google [get]
func (h *AuthHandler) GoogleOAuth(c echo.Context) error {
	return c.Redirect(http.StatusFound, h.oauthURL)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stansns/crud/internal/api/metrics"
	"github.com/stansns/crud/internal/core/domain"
	"github.com/stansns/crud/internal/core/ports"
)

// HomeHandler handles the authenticated /home surface. Every operation
// carries the requester's email and password as query parameters and is
// re-authenticated from scratch; there is no session on the server side.
type HomeHandler struct {
	service ports.HomeService
}

func NewHomeHandler(service ports.HomeService) *HomeHandler {
	return &HomeHandler{service: service}
}

// GetUsers dispatches the listing actions on the action query parameter.
//
// @Summary      Query the user directory
// @Tags         home
// @Produce      json
// @Param        action                query     string  true   "Listing action"
// @Param        email                 query     string  true   "Requester email"
// @Param        password              query     string  true   "Requester password"
// @Param        currentPage           query     int     false  "Zero-based page number"
// @Param        sizeOnPage            query     int     false  "Page size"
// @Param        searchTerm            query     string  false  "Search term (getAllUsersFoundByParameter)"
// @Param        selectedSearchOption  query     string  false  "Search field (getAllUsersFoundByParameter)"
// @Param        selectedUserEmail     query     string  false  "Target email (getSelectedUser)"
// @Success      200  {object}  pageResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /home [get]
func (h *HomeHandler) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	creds := requesterCredentials(c)
	action := c.QueryParam("action")
	metrics.ListingQueriesTotal.WithLabelValues(action).Inc()

	switch action {
	case domain.ActionAllUsersDefault, domain.ActionAllUsersSortedByName:
		page, size, err := pagination(c)
		if err != nil {
			return err
		}
		var result *domain.UserPage
		if action == domain.ActionAllUsersDefault {
			result, err = h.service.ListDefault(ctx, creds, page, size)
		} else {
			result, err = h.service.ListSortedByName(ctx, creds, page, size)
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toPageResponse(result))

	case domain.ActionAllUsersFoundByParam:
		page, size, err := pagination(c)
		if err != nil {
			return err
		}
		term := c.QueryParam("searchTerm")
		option := c.QueryParam("selectedSearchOption")
		if term == "" || option == "" {
			return domain.ErrMissingParameter
		}
		result, err := h.service.Search(ctx, creds, term, option, page, size)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toPageResponse(result))

	case domain.ActionGetSelectedUser:
		selected := c.QueryParam("selectedUserEmail")
		if selected == "" {
			return domain.ErrMissingParameter
		}
		user, err := h.service.GetSelected(ctx, creds, selected)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toUserResponse(user))

	default:
		return domain.ErrMissingParameter
	}
}

// DeleteUser removes an account. Only an ADMIN requester may delete, and
// only non-ADMIN targets can be deleted.
//
// @Summary      Delete a user
// @Tags         home
// @Produce      json
// @Param        email              query  string  true  "Requester email"
// @Param        password           query  string  true  "Requester password"
// @Param        userToDeleteEmail  query  string  true  "Target email"
// @Success      200  {string}  string  "Deleted!"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /home [delete]
func (h *HomeHandler) DeleteUser(c echo.Context) error {
	creds := requesterCredentials(c)
	target := c.QueryParam("userToDeleteEmail")
	if target == "" {
		metrics.MutationsTotal.WithLabelValues("delete", "error").Inc()
		return domain.ErrMissingParameter
	}

	if err := h.service.Delete(c.Request().Context(), creds, target); err != nil {
		metrics.MutationsTotal.WithLabelValues("delete", mutationResult(err)).Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues("delete", "ok").Inc()
	return c.String(http.StatusOK, "Deleted!")
}

// EditPhoneNumber is the legacy single-field edit carried entirely in the
// query string.
//
// @Summary      Change a user's phone number
// @Tags         home
// @Produce      json
// @Param        email                query  string  true  "Requester email"
// @Param        password             query  string  true  "Requester password"
// @Param        emailUserToChange    query  string  true  "Target email"
// @Param        phoneNumberToChange  query  string  true  "New phone number"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /home [patch]
func (h *HomeHandler) EditPhoneNumber(c echo.Context) error {
	creds := requesterCredentials(c)
	target := c.QueryParam("emailUserToChange")
	phone := c.QueryParam("phoneNumberToChange")
	if target == "" || phone == "" {
		metrics.MutationsTotal.WithLabelValues("edit_phone", "error").Inc()
		return domain.ErrMissingParameter
	}

	user, err := h.service.EditPhoneNumber(c.Request().Context(), creds, target, phone)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues("edit_phone", mutationResult(err)).Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues("edit_phone", "ok").Inc()
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// EditUser applies a partial profile edit to the requester's own account
// and returns the identity fields that changed, so the client can rebuild
// its session from the response.
//
// @Summary      Edit a user profile
// @Tags         home
// @Accept       json
// @Produce      json
// @Param        email              query  string              true  "Requester email"
// @Param        password           query  string              true  "Requester password"
// @Param        emailUserToChange  query  string              true  "Target email"
// @Param        body               body   editDetailsRequest  true  "Fields to change; empty fields are kept"
// @Success      200  {object}  authResponse
// @Failure      403  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /home [put]
func (h *HomeHandler) EditUser(c echo.Context) error {
	creds := requesterCredentials(c)
	target := c.QueryParam("emailUserToChange")
	if target == "" {
		metrics.MutationsTotal.WithLabelValues("edit_profile", "error").Inc()
		return domain.ErrMissingParameter
	}

	var req editDetailsRequest
	if err := c.Bind(&req); err != nil {
		metrics.MutationsTotal.WithLabelValues("edit_profile", "error").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.EditProfile(c.Request().Context(), creds, target, ports.EditProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		metrics.MutationsTotal.WithLabelValues("edit_profile", mutationResult(err)).Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues("edit_profile", "ok").Inc()
	return c.JSON(http.StatusOK, toAuthResponse(result))
}

// LogoutUser acknowledges a logout. The server keeps no session; this
// exists so the client can record the sign-out before clearing its own.
//
// @Summary      Log out
// @Tags         home
// @Produce      json
// @Param        email     query  string  true  "Requester email"
// @Param        password  query  string  true  "Requester password"
// @Success      200  {string}  string  "Logged out."
// @Failure      403  {object}  errorResponse
// @Router       /home [post]
func (h *HomeHandler) LogoutUser(c echo.Context) error {
	creds := requesterCredentials(c)
	if err := h.service.Logout(c.Request().Context(), creds); err != nil {
		return err
	}
	return c.String(http.StatusOK, "Logged out.")
}

func requesterCredentials(c echo.Context) ports.Credentials {
	return ports.Credentials{
		Email:    c.QueryParam("email"),
		Password: c.QueryParam("password"),
	}
}

// pagination parses currentPage and sizeOnPage; both are required by the
// listing actions.
func pagination(c echo.Context) (page, size int, err error) {
	rawPage := c.QueryParam("currentPage")
	rawSize := c.QueryParam("sizeOnPage")
	if rawPage == "" || rawSize == "" {
		return 0, 0, domain.ErrMissingParameter
	}
	page, err = strconv.Atoi(rawPage)
	if err != nil || page < 0 {
		return 0, 0, domain.ErrMissingParameter
	}
	size, err = strconv.Atoi(rawSize)
	if err != nil || size <= 0 {
		return 0, 0, domain.ErrMissingParameter
	}
	return page, size, nil
}

func mutationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccessDenied):
		return "denied"
	case errors.Is(err, domain.ErrDuplicateRequest):
		return "duplicate"
	default:
		return "error"
	}
}

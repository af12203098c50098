package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"user-api/internal/models"
	"user-api/internal/service"

	"github.com/go-chi/chi/v5"
)

type UserResponse struct {
	models.UserView
	Message string `json:"message" example:"User created successfully"`
}

type DeleteUserResponse struct {
	Deleted bool   `json:"deleted" example:"true"`
	Message string `json:"message" example:"User deleted successfully"`
}

// maxJSONBody caps user create and update bodies.
const maxJSONBody = 64 << 10

var errRouteNotFound = models.NewError(models.ErrNotFound, "Not found")

// parseUserID reads the {id} segment. The route only matches digits, so a
// failure here is an id too large for int64 and is treated like any other
// unmatched path.
func parseUserID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errRouteNotFound
	}
	return id, nil
}

// decodeJSON reads a size bounded JSON body. An oversized body keeps the
// *http.MaxBytesError in its chain so that it maps to 413.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return bodyError(err)
	}
	return nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return models.WrapError(models.ErrValidation, "Request body too large", err)
	}
	return models.NewValidationError("", "Invalid request body")
}

// @Summary      List users
// @Description  Returns every user without password data.
// @Tags         users
// @Produce      json
// @Success      200  {array}   models.UserView
// @Failure      500  {object}  ErrorResponse
// @Router       /users [get]
func (s *Server) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// @Summary      Create a user
// @Description  Accepts a JSON body or form fields username, email and password.
// @Tags         users
// @Accept       json,x-www-form-urlencoded,mpfd
// @Produce      json
// @Param        user  body      service.CreateUserInput  true  "New user"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /users [post]
func (s *Server) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCreateUser(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.users.CreateUser(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, UserResponse{UserView: *user, Message: "User created successfully"})
}

// decodeCreateUser normalizes the JSON and form variants of the create
// request into one input.
func decodeCreateUser(w http.ResponseWriter, r *http.Request) (service.CreateUserInput, error) {
	var in service.CreateUserInput
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		err := decodeJSON(w, r, &in)
		return in, err
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxJSONBody)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return in, bodyError(err)
	}
	in.Username = r.FormValue("username")
	in.Email = r.FormValue("email")
	in.Password = r.FormValue("password")
	return in, nil
}

// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  models.UserView
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (s *Server) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.users.GetUserOrNotFound(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// @Summary      Update a user's name
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                      true  "User ID"
// @Param        user  body      service.UpdateUserInput  true  "New name"
// @Success      200   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /users/{id} [put]
func (s *Server) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in service.UpdateUserInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.users.UpdateUser(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{UserView: *user, Message: "User updated successfully"})
}

// @Summary      Delete a user
// @Description  Idempotent: deleting an unknown id answers 200 with deleted=false.
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  DeleteUserResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (s *Server) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.users.DeleteUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "User deleted successfully"
	if !res.Deleted {
		message = "User not found, nothing to delete"
	}
	writeJSON(w, http.StatusOK, DeleteUserResponse{Deleted: res.Deleted, Message: message})
}

// @Summary      Search users by name
// @Description  Case-insensitive substring match. A missing name matches everyone.
// @Tags         users
// @Produce      json
// @Param        name  query     string  false  "Name fragment"
// @Success      200   {array}   models.UserView
// @Router       /users/search [get]
func (s *Server) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.SearchUsers(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// @Summary      Paginate users
// @Tags         users
// @Produce      json
// @Param        page   query     int  false  "Page number"     default(1)
// @Param        limit  query     int  false  "Users per page"  default(10)
// @Success      200    {object}  models.UserPage
// @Failure      400    {object}  ErrorResponse
// @Router       /users/paginate [get]
func (s *Server) PaginateUsersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit, err := service.ParsePageParams(q.Get("page"), q.Get("limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.users.PaginateUsers(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

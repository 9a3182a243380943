package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/arllen133/jobboard/internal/database"
	"github.com/arllen133/jobboard/internal/session"
	"github.com/arllen133/jobboard/internal/user"
	"github.com/arllen133/jobboard/internal/validation"
	"github.com/arllen133/jobboard/internal/view"
	"github.com/gin-gonic/gin"
)

const (
	msgInvalidEmail         = "Please enter a valid email"
	msgNameLength           = "Name must be between 2 and 50 characters"
	msgPasswordLength       = "Password must be at least 6 characters"
	msgPasswordTooLong      = "Password is too long"
	msgPasswordMismatch     = "Passwords do not match"
	msgEmailTaken           = "Email already exists"
	msgIncorrectCredentials = "Incorrect credentials"
)

type registerForm struct {
	Name                 string `form:"name"`
	Email                string `form:"email"`
	City                 string `form:"city"`
	State                string `form:"state"`
	Password             string `form:"password"`
	PasswordConfirmation string `form:"password_confirmation"`
}

func (f *registerForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
}

// input is what gets written back into the form; passwords never are.
func (f registerForm) input() map[string]string {
	return map[string]string{
		"name":  f.Name,
		"email": f.Email,
		"city":  f.City,
		"state": f.State,
	}
}

func (f registerForm) validate() validation.Errors {
	errs := validation.Errors{}
	if !validation.Email(f.Email) {
		errs.Add("email", msgInvalidEmail)
	}
	if !validation.String(f.Name, 2, 50) {
		errs.Add("name", msgNameLength)
	}
	if !validation.String(f.Password, 6, 50) {
		errs.Add("password", msgPasswordLength)
	}
	// 50 multi-byte runes can exceed what bcrypt hashes
	if len(f.Password) > user.MaxPasswordBytes {
		errs.Add("password", msgPasswordTooLong)
	}
	if !validation.Match(f.Password, f.PasswordConfirmation) {
		errs.Add("password_confirmation", msgPasswordMismatch)
	}
	return errs
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (f loginForm) validate() validation.Errors {
	errs := validation.Errors{}
	if !validation.Email(f.Email) {
		errs.Add("email", msgInvalidEmail)
	}
	if !validation.String(f.Password, 6, 50) {
		errs.Add("password", msgPasswordLength)
	}
	return errs
}

func sessionUser(u *user.User) session.User {
	return session.User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		City:  u.City,
		State: u.State,
	}
}

func (h *Handler) showRegister(c *gin.Context) {
	h.render(c, http.StatusOK, view.PageUsersCreate, view.Data{Title: "Register"})
}

func (h *Handler) showLogin(c *gin.Context) {
	h.render(c, http.StatusOK, view.PageUsersLogin, view.Data{Title: "Login"})
}

func (h *Handler) register(c *gin.Context) {
	var form registerForm
	// a malformed body leaves the fields empty and fails validation below
	_ = c.ShouldBind(&form)
	form.trim()

	invalid := func(errs validation.Errors) {
		h.render(c, http.StatusUnprocessableEntity, view.PageUsersCreate, view.Data{
			Title:  "Register",
			Errors: errs,
			Input:  form.input(),
		})
	}

	if errs := form.validate(); !errs.Empty() {
		invalid(errs)
		return
	}

	ctx := c.Request.Context()
	taken, err := h.users.EmailTaken(ctx, form.Email)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if taken {
		invalid(validation.Errors{"email": msgEmailTaken})
		return
	}

	hash, err := user.HashPassword(form.Password)
	if errors.Is(err, user.ErrPasswordTooLong) {
		invalid(validation.Errors{"password": msgPasswordTooLong})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	u := &user.User{
		Name:     form.Name,
		Email:    form.Email,
		City:     form.City,
		State:    form.State,
		Password: hash,
	}
	if err := h.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			invalid(validation.Errors{"email": msgEmailTaken})
			return
		}
		h.serverError(c, err)
		return
	}

	session.FromContext(ctx).SetUser(sessionUser(u))
	h.redirect(c, "/")
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	_ = c.ShouldBind(&form)
	form.Email = strings.TrimSpace(form.Email)

	invalid := func(errs validation.Errors) {
		h.render(c, http.StatusUnprocessableEntity, view.PageUsersLogin, view.Data{
			Title:  "Login",
			Errors: errs,
			Input:  map[string]string{"email": form.Email},
		})
	}

	if errs := form.validate(); !errs.Empty() {
		invalid(errs)
		return
	}

	ctx := c.Request.Context()
	u, err := h.users.FindByEmail(ctx, form.Email)
	switch {
	case errors.Is(err, database.ErrNotFound):
		invalid(validation.Errors{"email": msgIncorrectCredentials})
		return
	case err != nil:
		h.serverError(c, err)
		return
	}
	if !user.CheckPassword(u.Password, form.Password) {
		invalid(validation.Errors{"email": msgIncorrectCredentials})
		return
	}

	session.FromContext(ctx).SetUser(sessionUser(u))
	h.redirect(c, "/")
}

func (h *Handler) logout(c *gin.Context) {
	session.FromContext(c.Request.Context()).Clear()
	h.redirect(c, "/")
}

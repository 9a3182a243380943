package handler_test

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/arllen133/jobboard/internal/post"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingPath(id int64) string {
	return "/listings/" + strconv.FormatInt(id, 10)
}

func TestGuestRedirects(t *testing.T) {
	a := setupApp(t, 0)
	c := a.client(t)

	for _, path := range []string{"/listings/create", "/listings/edit/1"} {
		rec := c.get(path)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/auth/login", rec.Header().Get("Location"), path)
	}

	rec := c.post("/listings", listingForm("Go Developer"))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Empty(t, a.allListings(t))
}

func TestAuthenticatedUserSkipsGuestPages(t *testing.T) {
	a := setupApp(t, 0)
	c := a.client(t)
	c.register("Jane Doe", "jane@example.com")

	rec := c.get("/auth/login")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRegisterAndLogin(t *testing.T) {
	a := setupApp(t, 0)

	c := a.client(t)
	c.register("Jane Doe", "Jane@Example.com")
	assert.Contains(t, c.get("/").Body.String(), "Welcome Jane Doe")

	u, err := a.users.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Boston", u.City)
	assert.NotEqual(t, "secret123", u.Password)

	rec := c.post("/auth/logout", url.Values{})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Empty(t, c.cookies)
	assert.Equal(t, "/auth/login", c.get("/listings/create").Header().Get("Location"))

	rec = c.post("/auth/login", url.Values{"email": {"jane@example.com"}, "password": {"wrong-password"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect credentials")

	rec = c.post("/auth/login", url.Values{"email": {"nobody@example.com"}, "password": {"secret123"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect credentials")

	rec = c.post("/auth/login", url.Values{"email": {"jane@example.com"}, "password": {"secret123"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Contains(t, c.get("/").Body.String(), "Welcome Jane Doe")
}

func TestRegisterValidation(t *testing.T) {
	a := setupApp(t, 0)
	c := a.client(t)

	rec := c.post("/auth/register", url.Values{
		"name":                  {"J"},
		"email":                 {"not-an-email"},
		"password":              {"123"},
		"password_confirmation": {"456"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please enter a valid email")
	assert.Contains(t, body, "Name must be between 2 and 50 characters")
	assert.Contains(t, body, "Password must be at least 6 characters")
	assert.Contains(t, body, "Passwords do not match")
	assert.Contains(t, body, `value="not-an-email"`)

	c.register("Jane Doe", "jane@example.com")
	other := a.client(t)
	rec = other.post("/auth/register", url.Values{
		"name":                  {"Jane Again"},
		"email":                 {"JANE@example.com"},
		"password":              {"secret123"},
		"password_confirmation": {"secret123"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already exists")
}

func TestStoreListing(t *testing.T) {
	a := setupApp(t, 0)
	c := a.client(t)
	c.register("Jane Doe", "jane@example.com")

	form := listingForm("  Go Developer  ")
	rec := c.post("/listings", form)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/listings", rec.Header().Get("Location"))

	body := c.get("/listings").Body.String()
	assert.Contains(t, body, "Listing created successfully")
	assert.Contains(t, body, "Go Developer")
	// flashes are shown once
	assert.NotContains(t, c.get("/listings").Body.String(), "Listing created successfully")

	posts := a.allListings(t)
	require.Len(t, posts, 1)
	p := posts[0]
	assert.Equal(t, "Go Developer", p.Title)
	assert.Equal(t, "Write Go services", p.Content)
	assert.Equal(t, post.StatusPublished, p.PostStatus)
	for _, key := range post.MetaKeys() {
		assert.Equal(t, form.Get(key), p.Meta[key], key)
	}

	u, err := a.users.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
}

func TestStoreListingValidation(t *testing.T) {
	a := setupApp(t, 0)
	c := a.client(t)
	c.register("Jane Doe", "jane@example.com")

	form := listingForm("Go Developer")
	form.Set("title", "   ")
	form.Set("city", "")

	rec := c.post("/listings", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Title is required")
	assert.Contains(t, rec.Body.String(), "City is required")
	assert.Contains(t, rec.Body.String(), `value="Acme"`)
	assert.Empty(t, a.allListings(t))
}

func TestShowListing(t *testing.T) {
	a := setupApp(t, 0)
	c := a.client(t)
	c.register("Jane Doe", "jane@example.com")
	c.post("/listings", listingForm("Go Developer"))
	id := a.allListings(t)[0].ID

	rec := a.client(t).get(listingPath(id))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "$90,000")
	assert.NotContains(t, rec.Body.String(), "/listings/edit/")

	assert.Contains(t, c.get(listingPath(id)).Body.String(), "/listings/edit/")

	rec = c.get(listingPath(id + 100))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Listing not found")

	assert.Equal(t, http.StatusNotFound, c.get("/listings/abc").Code)
	assert.Equal(t, http.StatusNotFound, c.get("/no/such/page").Code)
}

func TestUpdateListing(t *testing.T) {
	a := setupApp(t, 0)
	owner := a.client(t)
	owner.register("Jane Doe", "jane@example.com")
	owner.post("/listings", listingForm("Go Developer"))
	id := a.allListings(t)[0].ID

	rec := owner.get("/listings/edit/" + strconv.FormatInt(id, 10))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Go Developer"`)

	form := listingForm("Senior Go Developer")
	form.Set("salary", "120000")
	form.Set("_method", http.MethodPut)
	rec = owner.post(listingPath(id), form)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, listingPath(id), rec.Header().Get("Location"))
	assert.Contains(t, owner.get(listingPath(id)).Body.String(), "Listing updated")

	p := a.allListings(t)[0]
	assert.Equal(t, "Senior Go Developer", p.Title)
	assert.Equal(t, "120000", p.Meta[post.MetaSalary])

	form.Set("description", "")
	rec = owner.post(listingPath(id), form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Description is required")
	assert.Equal(t, "Write Go services", a.allListings(t)[0].Content)
}

func TestNonOwnerCannotEditOrDelete(t *testing.T) {
	a := setupApp(t, 0)
	owner := a.client(t)
	owner.register("Jane Doe", "jane@example.com")
	owner.post("/listings", listingForm("Go Developer"))
	id := a.allListings(t)[0].ID

	intruder := a.client(t)
	intruder.register("John Roe", "john@example.com")

	rec := intruder.post(listingPath(id), url.Values{"_method": {http.MethodDelete}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, listingPath(id), rec.Header().Get("Location"))
	assert.Contains(t, intruder.get(listingPath(id)).Body.String(), "You are not authorized to delete this listing")
	require.Len(t, a.allListings(t), 1)

	rec = intruder.get("/listings/edit/" + strconv.FormatInt(id, 10))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, intruder.get(listingPath(id)).Body.String(), "You are not authorized to edit this listing")

	form := listingForm("Hijacked")
	form.Set("_method", http.MethodPut)
	intruder.post(listingPath(id), form)
	assert.Equal(t, "Go Developer", a.allListings(t)[0].Title)
}

func TestDeleteListing(t *testing.T) {
	a := setupApp(t, 0)
	c := a.client(t)
	c.register("Jane Doe", "jane@example.com")
	c.post("/listings", listingForm("Go Developer"))
	id := a.allListings(t)[0].ID

	rec := c.post(listingPath(id), url.Values{"_method": {http.MethodDelete}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/listings", rec.Header().Get("Location"))
	assert.Contains(t, c.get("/listings").Body.String(), "Listing deleted successfully")
	assert.Empty(t, a.allListings(t))

	meta, err := a.posts.GetAllMeta(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, meta)
}

func TestIndexPaginationAndHome(t *testing.T) {
	a := setupApp(t, 2)
	c := a.client(t)
	c.register("Jane Doe", "jane@example.com")
	for _, title := range []string{"First Job", "Second Job", "Third Job"} {
		require.Equal(t, http.StatusFound, c.post("/listings", listingForm(title)).Code)
	}

	body := c.get("/listings").Body.String()
	assert.Contains(t, body, "Page 1 of 2")
	assert.Contains(t, body, "/listings?page=2")

	body = c.get("/listings?page=2").Body.String()
	assert.Contains(t, body, "Page 2 of 2")
	assert.Contains(t, body, "/listings?page=1")

	body = c.get("/").Body.String()
	for _, title := range []string{"First Job", "Second Job", "Third Job"} {
		assert.Contains(t, body, title)
	}
}

func TestSearch(t *testing.T) {
	a := setupApp(t, 0)
	c := a.client(t)
	c.register("Jane Doe", "jane@example.com")

	c.post("/listings", listingForm("Go Developer"))
	other := listingForm("Rust Engineer")
	other.Set("city", "Denver")
	other.Set("state", "CO")
	other.Set("company", "Globex")
	c.post("/listings", other)

	body := c.get("/listings/search?keywords=globex").Body.String()
	assert.Contains(t, body, "Rust Engineer")
	assert.NotContains(t, body, "Go Developer")

	body = c.get("/listings/search?location=boston").Body.String()
	assert.Contains(t, body, "Go Developer")
	assert.NotContains(t, body, "Rust Engineer")

	body = c.get("/listings/search?keywords=developer&location=denver").Body.String()
	assert.Contains(t, body, "No listings found")
}

func TestRegisterRejectsPasswordOverBcryptLimit(t *testing.T) {
	a := setupApp(t, 0)
	c := a.client(t)

	// 40 runes, 80 bytes
	password := strings.Repeat("é", 40)
	rec := c.post("/auth/register", url.Values{
		"name":                  {"Jane Doe"},
		"email":                 {"jane@example.com"},
		"password":              {password},
		"password_confirmation": {password},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password is too long")

	taken, err := a.users.EmailTaken(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.False(t, taken)
}

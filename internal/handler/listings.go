package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/arllen133/jobboard/internal/authz"
	"github.com/arllen133/jobboard/internal/database"
	"github.com/arllen133/jobboard/internal/post"
	"github.com/arllen133/jobboard/internal/session"
	"github.com/arllen133/jobboard/internal/validation"
	"github.com/arllen133/jobboard/internal/view"
	"github.com/gin-gonic/gin"
)

const (
	msgListingCreated  = "Listing created successfully"
	msgListingUpdated  = "Listing updated"
	msgListingDeleted  = "Listing deleted successfully"
	msgCannotEdit      = "You are not authorized to edit this listing"
	msgCannotDelete    = "You are not authorized to delete this listing"
	msgListingNotFound = "Listing not found"
)

func listings(posts []*post.Post) []post.Listing {
	out := make([]post.Listing, len(posts))
	for i, p := range posts {
		out[i] = post.NewListing(p)
	}
	return out
}

func listingURL(id int64) string {
	return "/listings/" + strconv.FormatInt(id, 10)
}

func (h *Handler) home(c *gin.Context) {
	posts, err := h.posts.Find(c.Request.Context(), post.Filter{
		PostType: post.TypeListing,
		Limit:    homeListings,
		Order:    post.OrderAsc,
		WithMeta: true,
	})
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, view.PageHome, view.Data{Listings: listings(posts)})
}

func (h *Handler) listingIndex(c *gin.Context) {
	ctx := c.Request.Context()
	filter := post.Filter{PostType: post.TypeListing}

	total, err := h.posts.Count(ctx, filter)
	if err != nil {
		h.serverError(c, err)
		return
	}
	pages := int((total + int64(h.pageSize) - 1) / int64(h.pageSize))

	page := max(post.ParseLimit(c.Query("page")), 1)
	if pages > 0 && page > pages {
		page = pages
	}

	filter.Limit = h.pageSize
	filter.Offset = (page - 1) * h.pageSize
	filter.WithMeta = true

	posts, err := h.posts.Find(ctx, filter)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, view.PageListingsIndex, view.Data{
		Title:    "Listings",
		Listings: listings(posts),
		Page:     page,
		Pages:    pages,
	})
}

func (h *Handler) listingSearch(c *gin.Context) {
	keywords := strings.TrimSpace(c.Query("keywords"))
	location := strings.TrimSpace(c.Query("location"))

	posts, err := h.posts.Search(c.Request.Context(), post.SearchQuery{
		Keywords: keywords,
		Location: location,
	})
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, view.PageListingsSearch, view.Data{
		Title:    "Search",
		Listings: listings(posts),
		Keywords: keywords,
		Location: location,
	})
}

// loadListing fetches the listing named by the :id parameter. When it
// returns false the response has already been written.
func (h *Handler) loadListing(c *gin.Context) (*post.Listing, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderError(c, http.StatusNotFound, msgListingNotFound)
		return nil, false
	}

	p, err := h.posts.FindOne(c.Request.Context(), post.Filter{
		PostType: post.TypeListing,
		PostID:   id,
		WithMeta: true,
	})
	switch {
	case errors.Is(err, database.ErrNotFound):
		h.renderError(c, http.StatusNotFound, msgListingNotFound)
		return nil, false
	case err != nil:
		h.serverError(c, err)
		return nil, false
	}

	l := post.NewListing(p)
	return &l, true
}

// loadOwnedListing is loadListing plus the ownership check. Non-owners are
// sent back to the listing with denied as the error flash.
func (h *Handler) loadOwnedListing(c *gin.Context, denied string) (*post.Listing, bool) {
	l, ok := h.loadListing(c)
	if !ok {
		return nil, false
	}
	if !authz.IsOwner(session.FromContext(c.Request.Context()), l.UserID) {
		h.flashRedirect(c, session.FlashError, denied, listingURL(l.ID))
		return nil, false
	}
	return l, true
}

func (h *Handler) listingShow(c *gin.Context) {
	l, ok := h.loadListing(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, view.PageListingsShow, view.Data{Title: l.Title, Listing: l})
}

func (h *Handler) listingCreate(c *gin.Context) {
	h.render(c, http.StatusOK, view.PageListingsCreate, view.Data{Title: "Create Listing"})
}

func (h *Handler) listingStore(c *gin.Context) {
	input := listingInput(c)
	if errs := validateListing(input); !errs.Empty() {
		h.render(c, http.StatusUnprocessableEntity, view.PageListingsCreate, view.Data{
			Title:  "Create Listing",
			Errors: errs,
			Input:  input,
		})
		return
	}

	if _, err := h.posts.Insert(c.Request.Context(), post.NewListingFields(input)); err != nil {
		h.serverError(c, err)
		return
	}
	h.flashRedirect(c, session.FlashSuccess, msgListingCreated, "/listings")
}

func (h *Handler) listingEdit(c *gin.Context) {
	l, ok := h.loadOwnedListing(c, msgCannotEdit)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, view.PageListingsEdit, view.Data{
		Title:   "Edit Listing",
		Listing: l,
		Input:   l.Input(),
	})
}

func (h *Handler) listingUpdate(c *gin.Context) {
	l, ok := h.loadOwnedListing(c, msgCannotEdit)
	if !ok {
		return
	}

	input := listingInput(c)
	if errs := validateListing(input); !errs.Empty() {
		h.render(c, http.StatusUnprocessableEntity, view.PageListingsEdit, view.Data{
			Title:   "Edit Listing",
			Listing: l,
			Errors:  errs,
			Input:   input,
		})
		return
	}

	if err := h.posts.Update(c.Request.Context(), l.ID, post.NewListingFields(input)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, msgListingNotFound)
			return
		}
		h.serverError(c, err)
		return
	}
	h.flashRedirect(c, session.FlashSuccess, msgListingUpdated, listingURL(l.ID))
}

func (h *Handler) listingDestroy(c *gin.Context) {
	l, ok := h.loadOwnedListing(c, msgCannotDelete)
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), l.ID); err != nil && !errors.Is(err, database.ErrNotFound) {
		h.serverError(c, err)
		return
	}
	h.flashRedirect(c, session.FlashSuccess, msgListingDeleted, "/listings")
}

// listingInput collects the allowed listing fields from the form, trimmed.
func listingInput(c *gin.Context) map[string]string {
	input := make(map[string]string, len(post.ListingFields))
	for _, field := range post.ListingFields {
		input[field] = strings.TrimSpace(c.PostForm(field))
	}
	return input
}

func validateListing(input map[string]string) validation.Errors {
	errs := validation.Errors{}
	for _, field := range post.RequiredListingFields {
		if !validation.Required(input[field]) {
			errs.Add(field, ucfirst(field)+" is required")
		}
	}
	return errs
}

func ucfirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

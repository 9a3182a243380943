// Package view renders the server-side HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/arllen133/jobboard/internal/authz"
	"github.com/arllen133/jobboard/internal/post"
	"github.com/arllen133/jobboard/internal/session"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates
var files embed.FS

// Page names accepted by Renderer.
const (
	PageHome           = "home"
	PageListingsIndex  = "listings/index"
	PageListingsShow   = "listings/show"
	PageListingsCreate = "listings/create"
	PageListingsEdit   = "listings/edit"
	PageListingsSearch = "listings/search"
	PageUsersCreate    = "users/create"
	PageUsersLogin     = "users/login"
	PageError          = "error"
)

var pages = []string{
	PageHome,
	PageListingsIndex, PageListingsShow, PageListingsCreate, PageListingsEdit, PageListingsSearch,
	PageUsersCreate, PageUsersLogin,
	PageError,
}

// Data is the value every page template executes against.
type Data struct {
	Title   string
	Session *session.Session
	Flashes map[string]string

	// form state
	Errors map[string]string
	Input  map[string]string

	Listings []post.Listing
	Listing  *post.Listing

	Keywords string
	Location string

	Page  int
	Pages int

	Status  int
	Message string
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatSalary": post.FormatSalary,
		"isOwner":      authz.IsOwner,
		"join":         strings.Join,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
	}
}

// Renderer holds one parsed template set per page. It implements gin's
// render.HTMLRender so handlers can call c.HTML(status, page, data).
type Renderer struct {
	pages map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

// New parses the embedded templates.
func New() (*Renderer, error) {
	return parse(files)
}

func parse(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}

	for _, page := range pages {
		t, err := template.New(page).Funcs(Funcs()).ParseFS(fsys,
			"templates/layout.html",
			"templates/partials/*.html",
			"templates/pages/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Instance implements render.HTMLRender. Unknown pages panic: page names
// are compile-time constants.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		panic(fmt.Sprintf("view: unknown page %q", name))
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}

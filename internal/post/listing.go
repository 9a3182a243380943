package post

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Form fields of a listing. description maps to the post content; title to
// the post title; every other field is stored as meta under its own name.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
)

// ListingFields lists the accepted form fields in display order.
var ListingFields = []string{
	FieldTitle, FieldDescription, MetaSalary, MetaTags, MetaCompany, MetaAddress,
	MetaCity, MetaState, MetaPhone, MetaEmail, MetaRequirements, MetaBenefits,
}

// RequiredListingFields must be non-empty on create and update.
var RequiredListingFields = []string{FieldTitle, FieldDescription, MetaEmail, MetaCity, MetaSalary}

// NewListingFields builds the Fields of a published listing from form
// input. Keys outside ListingFields are dropped.
func NewListingFields(input map[string]string) Fields {
	f := Fields{
		PostType:   TypeListing,
		PostStatus: StatusPublished,
		Title:      input[FieldTitle],
		Content:    input[FieldDescription],
		Meta:       Meta{},
	}
	for _, key := range metaKeys {
		if v, ok := input[key]; ok {
			f.Meta[key] = v
		}
	}
	return f
}

// Listing is a listing post together with its meta values.
type Listing struct {
	*Post
}

func NewListing(p *Post) Listing {
	if p.Meta == nil {
		p.Meta = Meta{}
	}
	return Listing{Post: p}
}

func (l Listing) Description() string  { return l.Content }
func (l Listing) Salary() string       { return l.Meta.Get(MetaSalary) }
func (l Listing) Company() string      { return l.Meta.Get(MetaCompany) }
func (l Listing) Address() string      { return l.Meta.Get(MetaAddress) }
func (l Listing) City() string         { return l.Meta.Get(MetaCity) }
func (l Listing) State() string        { return l.Meta.Get(MetaState) }
func (l Listing) Phone() string        { return l.Meta.Get(MetaPhone) }
func (l Listing) Email() string        { return l.Meta.Get(MetaEmail) }
func (l Listing) Requirements() string { return l.Meta.Get(MetaRequirements) }
func (l Listing) Benefits() string     { return l.Meta.Get(MetaBenefits) }

// Tags splits the comma separated tags meta value.
func (l Listing) Tags() []string {
	var tags []string
	for _, t := range strings.Split(l.Meta.Get(MetaTags), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Input returns the listing as form values, for pre-filling the edit form.
func (l Listing) Input() map[string]string {
	in := map[string]string{
		FieldTitle:       l.Title,
		FieldDescription: l.Content,
	}
	for key, v := range l.Meta {
		in[key] = v
	}
	return in
}

// FormatSalary renders a numeric salary as whole dollars with thousands
// separators, e.g. "90000" -> "$90,000". Other values are returned as is.
func FormatSalary(salary string) string {
	s := strings.TrimSpace(strings.ReplaceAll(salary, ",", ""))
	s = strings.TrimPrefix(s, "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return salary
	}
	return "$" + humanize.Comma(int64(math.Round(v)))
}

package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strconv"
	"strings"

	"pierres.shop/app/internal/shared/slug"
	"pierres.shop/app/pkg/view"
)

type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Fall   Season = "fall"
	Winter Season = "winter"
)

var Seasons = []Season{Spring, Summer, Fall, Winter}

func (s Season) Valid() bool {
	switch s {
	case Spring, Summer, Fall, Winter:
		return true
	}
	return false
}

// SeasonSet keeps the selected seasons in the order they were picked.
type SeasonSet struct {
	values []Season
}

func NewSeasonSet(ss ...Season) SeasonSet {
	var set SeasonSet
	for _, s := range ss {
		if s.Valid() && !set.Has(s) {
			set.values = append(set.values, s)
		}
	}
	return set
}

func (set SeasonSet) Has(s Season) bool {
	for _, v := range set.values {
		if v == s {
			return true
		}
	}
	return false
}

// Toggle removes s when present and appends it otherwise. Unknown seasons are
// ignored.
func (set *SeasonSet) Toggle(s Season) {
	if !s.Valid() {
		return
	}
	for i, v := range set.values {
		if v == s {
			set.values = append(set.values[:i:i], set.values[i+1:]...)
			return
		}
	}
	set.values = append(set.values, s)
}

func (set SeasonSet) Len() int { return len(set.values) }

func (set SeasonSet) Values() []Season { return append([]Season(nil), set.values...) }

// String is the wire form: the seasons joined by commas.
func (set SeasonSet) String() string {
	parts := make([]string, len(set.values))
	for i, v := range set.values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ",")
}

// Attachment is a file picked for upload.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Draft is the editable buffer behind the product form.
type Draft struct {
	Name        string
	Description string
	Price       float64
	InStock     int
	Quality     string
	Sold        int
	Category    string // category slug
	Size        string
	Season      SeasonSet
	Image       *Attachment
}

var ErrDraftInvalid = errors.New("client: draft is invalid")

// FieldError lists the draft fields that failed local checks, keyed by their
// wire names.
type FieldError struct {
	Fields map[string]string
}

func (e *FieldError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	return fmt.Sprintf("client: invalid fields: %s", strings.Join(keys, ", "))
}

func (e *FieldError) Unwrap() error { return ErrDraftInvalid }

// Field is one text part of a payload.
type Field struct {
	Name  string
	Value string
}

// Payload is an assembled product form, ready to encode as multipart.
type Payload struct {
	Fields []Field
	Image  *Attachment
}

// Get returns the value of the named field and whether it is present.
func (p Payload) Get(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Assemble maps d onto the wire fields the product endpoints accept. The
// season field is sent only when at least one season is selected.
func Assemble(d Draft) (Payload, error) {
	bad := map[string]string{}
	if strings.TrimSpace(d.Name) == "" {
		bad["name"] = "This field is required."
	}
	if strings.TrimSpace(d.Description) == "" {
		bad["description"] = "This field is required."
	}
	switch {
	case math.IsNaN(d.Price) || math.IsInf(d.Price, 0):
		bad["price"] = "Must be a number."
	case d.Price < 0:
		bad["price"] = "Must be greater than or equal to 0."
	case d.Price > view.MaxPrice:
		bad["price"] = fmt.Sprintf("Must be less than or equal to %d.", view.MaxPrice)
	}
	if d.InStock < 0 {
		bad["inStock"] = "Must be greater than or equal to 0."
	}
	if d.Sold < 0 {
		bad["sold"] = "Must be greater than or equal to 0."
	}
	if strings.TrimSpace(d.Category) == "" {
		bad["category"] = "This field is required."
	}
	if d.Image != nil && len(d.Image.Data) == 0 {
		bad["image"] = "The selected file is empty."
	}
	if len(bad) > 0 {
		return Payload{}, &FieldError{Fields: bad}
	}

	p := Payload{
		Fields: []Field{
			{"name", d.Name},
			{"description", d.Description},
			{"price", strconv.FormatFloat(d.Price, 'f', -1, 64)},
			{"inStock", strconv.Itoa(d.InStock)},
			{"quality", d.Quality},
			{"sold", strconv.Itoa(d.Sold)},
			{"category", d.Category},
			{"size", d.Size},
		},
		Image: d.Image,
	}
	if d.Season.Len() > 0 {
		p.Fields = append(p.Fields, Field{"season", d.Season.String()})
	}
	return p, nil
}

// Encode writes p as a multipart/form-data body. The image goes in a file part
// named "image".
func (p Payload) Encode() (contentType string, body *bytes.Buffer, err error) {
	body = &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, f := range p.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return "", nil, err
		}
	}
	if p.Image != nil {
		ct := p.Image.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, p.Image.Filename))
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return "", nil, err
		}
		if _, err := io.Copy(part, bytes.NewReader(p.Image.Data)); err != nil {
			return "", nil, err
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), body, nil
}

// ProductRequest is a create or edit submission. Slug is empty for create and
// names the edited product otherwise; it never travels inside the payload.
type ProductRequest struct {
	Slug    string
	Payload Payload
}

func (r ProductRequest) IsEdit() bool { return r.Slug != "" }

func CreateRequest(d Draft) (ProductRequest, error) {
	p, err := Assemble(d)
	if err != nil {
		return ProductRequest{}, err
	}
	return ProductRequest{Payload: p}, nil
}

func EditRequest(productSlug string, d Draft) (ProductRequest, error) {
	s := slug.Normalize(productSlug)
	switch {
	case s == "":
		return ProductRequest{}, &FieldError{Fields: map[string]string{"slug": "This field is required."}}
	case !slug.Valid(s):
		return ProductRequest{}, &FieldError{Fields: map[string]string{"slug": "Must be lowercase letters, digits and dashes."}}
	}
	p, err := Assemble(d)
	if err != nil {
		return ProductRequest{}, err
	}
	return ProductRequest{Slug: s, Payload: p}, nil
}

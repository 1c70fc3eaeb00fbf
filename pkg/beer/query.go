package beer

import (
	"net/url"
	"strconv"
	"strings"
)

// Optional holds a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Query parameter names understood by the list endpoint.
const (
	ParamName          = "beerName"
	ParamStyle         = "beerStyle"
	ParamShowInventory = "showInventory"
	ParamPageNumber    = "pageNumber"
	ParamPageSize      = "pageSize"
)

// Filter narrows a beer listing. Absent fields are left out of the query
// string entirely.
type Filter struct {
	Name          Optional[string]
	Style         Optional[Style]
	ShowInventory Optional[bool]
	PageNumber    Optional[int]
	PageSize      Optional[int]
}

// NewFilter creates an empty filter.
func NewFilter() *Filter {
	return &Filter{}
}

// WithName sets the name filter.
func (f *Filter) WithName(name string) *Filter {
	f.Name = Some(name)

	return f
}

// WithStyle sets the style filter.
func (f *Filter) WithStyle(style Style) *Filter {
	f.Style = Some(style)

	return f
}

// WithShowInventory sets whether inventory is included.
func (f *Filter) WithShowInventory(show bool) *Filter {
	f.ShowInventory = Some(show)

	return f
}

// WithPageNumber sets the requested page.
func (f *Filter) WithPageNumber(page int) *Filter {
	f.PageNumber = Some(page)

	return f
}

// WithPageSize sets the page size.
func (f *Filter) WithPageSize(size int) *Filter {
	f.PageSize = Some(size)

	return f
}

// queryParam is a single encoded name/value pair.
type queryParam struct {
	name  string
	value string
}

// params lists the present fields in their fixed emission order.
func (f *Filter) params() []queryParam {
	if f == nil {
		return nil
	}

	var out []queryParam

	if v, ok := f.Name.Get(); ok {
		out = append(out, queryParam{ParamName, v})
	}

	if v, ok := f.Style.Get(); ok {
		out = append(out, queryParam{ParamStyle, v.String()})
	}

	if v, ok := f.ShowInventory.Get(); ok {
		out = append(out, queryParam{ParamShowInventory, strconv.FormatBool(v)})
	}

	if v, ok := f.PageNumber.Get(); ok {
		out = append(out, queryParam{ParamPageNumber, strconv.Itoa(v)})
	}

	if v, ok := f.PageSize.Get(); ok {
		out = append(out, queryParam{ParamPageSize, strconv.Itoa(v)})
	}

	return out
}

// Encode renders the filter as a query string without the leading "?".
// Parameters appear in the order name, style, showInventory, pageNumber,
// pageSize regardless of which subset is present.
func (f *Filter) Encode() string {
	var builder strings.Builder

	for i, p := range f.params() {
		if i > 0 {
			builder.WriteByte('&')
		}

		builder.WriteString(url.QueryEscape(p.name))
		builder.WriteByte('=')
		builder.WriteString(url.QueryEscape(p.value))
	}

	return builder.String()
}

// ToValues returns the filter as url.Values. Ordering is lost; use Encode
// when the exact query string matters.
func (f *Filter) ToValues() url.Values {
	values := url.Values{}
	for _, p := range f.params() {
		values.Set(p.name, p.value)
	}

	return values
}

// WithPage returns a copy of the filter pointing at another page.
func (f *Filter) WithPage(page int) *Filter {
	clone := Filter{}
	if f != nil {
		clone = *f
	}

	clone.PageNumber = Some(page)

	return &clone
}

// BuildURI appends the encoded filter to basePath.
func BuildURI(basePath string, filter *Filter) string {
	query := filter.Encode()
	if query == "" {
		return basePath
	}

	return basePath + "?" + query
}

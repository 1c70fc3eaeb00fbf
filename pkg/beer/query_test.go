package beer_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/beer-client/pkg/beer"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestFilter_Encode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filter   *beer.Filter
		expected string
	}{
		{
			name:     "nil filter",
			filter:   nil,
			expected: "",
		},
		{
			name:     "empty filter",
			filter:   beer.NewFilter(),
			expected: "",
		},
		{
			name:     "style only",
			filter:   beer.NewFilter().WithStyle(beer.StyleIPA),
			expected: "beerStyle=IPA",
		},
		{
			name: "all fields set in reverse order",
			filter: beer.NewFilter().
				WithPageSize(50).
				WithPageNumber(2).
				WithShowInventory(true).
				WithStyle(beer.StyleLager).
				WithName("Galaxy"),
			expected: "beerName=Galaxy&beerStyle=LAGER&showInventory=true&pageNumber=2&pageSize=50",
		},
		{
			name:     "name and page size",
			filter:   beer.NewFilter().WithPageSize(10).WithName("Mango Bobs"),
			expected: "beerName=Mango+Bobs&pageSize=10",
		},
		{
			name:     "false inventory is still emitted",
			filter:   beer.NewFilter().WithShowInventory(false),
			expected: "showInventory=false",
		},
		{
			name:     "zero page number is still emitted",
			filter:   beer.NewFilter().WithPageNumber(0),
			expected: "pageNumber=0",
		},
		{
			name:     "reserved characters are escaped",
			filter:   beer.NewFilter().WithName("A&B=C"),
			expected: "beerName=A%26B%3DC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.filter.Encode())
		})
	}
}

func TestBuildURI(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/api/v1/beer", beer.BuildURI("/api/v1/beer", nil))
	assert.Equal(t, "/api/v1/beer", beer.BuildURI("/api/v1/beer", beer.NewFilter()))
	assert.Equal(t, "/api/v1/beer?beerStyle=IPA&pageSize=25",
		beer.BuildURI("/api/v1/beer", beer.NewFilter().WithPageSize(25).WithStyle(beer.StyleIPA)))
}

func TestFilter_ToValues(t *testing.T) {
	t.Parallel()

	values := beer.NewFilter().WithName("Galaxy").WithPageNumber(3).ToValues()

	assert.Equal(t, url.Values{
		"beerName":   []string{"Galaxy"},
		"pageNumber": []string{"3"},
	}, values)
}

func TestFilter_WithPage(t *testing.T) {
	t.Parallel()

	original := beer.NewFilter().WithName("Galaxy").WithPageNumber(1)
	next := original.WithPage(2)

	page, ok := original.PageNumber.Get()
	assert.True(t, ok)
	assert.Equal(t, 1, page)

	page, ok = next.PageNumber.Get()
	assert.True(t, ok)
	assert.Equal(t, 2, page)
	assert.Equal(t, "beerName=Galaxy&pageNumber=2", next.Encode())

	var nilFilter *beer.Filter
	assert.Equal(t, "pageNumber=4", nilFilter.WithPage(4).Encode())
}

func TestOptional(t *testing.T) {
	t.Parallel()

	absent := beer.None[int]()
	_, ok := absent.Get()
	assert.False(t, ok)
	assert.False(t, absent.IsSet())

	present := beer.Some(0)
	value, ok := present.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, value)
}

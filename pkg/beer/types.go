package beer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Static errors for err113 compliance.
var (
	ErrUnknownStyle     = errors.New("unknown beer style")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Style is the beer style enumeration understood by the API.
type Style string

// Known beer styles.
const (
	StyleAle     Style = "ALE"
	StylePaleAle Style = "PALE_ALE"
	StyleIPA     Style = "IPA"
	StyleWheat   Style = "WHEAT"
	StylePilsner Style = "PILSNER"
	StyleStout   Style = "STOUT"
	StyleGose    Style = "GOSE"
	StylePorter  Style = "PORTER"
	StyleSaison  Style = "SAISON"
	StyleLager   Style = "LAGER"
)

// Styles returns every known style in declaration order.
func Styles() []Style {
	return []Style{
		StyleAle, StylePaleAle, StyleIPA, StyleWheat, StylePilsner,
		StyleStout, StyleGose, StylePorter, StyleSaison, StyleLager,
	}
}

// Valid reports whether s is one of the known styles.
func (s Style) Valid() bool {
	for _, known := range Styles() {
		if s == known {
			return true
		}
	}

	return false
}

// String implements fmt.Stringer.
func (s Style) String() string {
	return string(s)
}

// ParseStyle parses a style name case-insensitively. Dashes are accepted in
// place of underscores so "pale-ale" parses as PALE_ALE.
func ParseStyle(name string) (Style, error) {
	normalized := Style(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_")))
	if !normalized.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}

	return normalized, nil
}

// timestampLayouts are tried in order when decoding server timestamps. The
// API emits zone-less local date-times; RFC 3339 is accepted as well.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Timestamp is a server-assigned date-time that tolerates values without a
// zone offset. Zone-less values are interpreted as UTC.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}

		return nil
	}

	var raw string

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimestamp, string(data))
	}

	for _, layout := range timestampLayouts {
		parsed, parseErr := time.Parse(layout, raw)
		if parseErr == nil {
			t.Time = parsed

			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// Beer is the resource exposed by the API. ID, Version, CreatedDate and
// UpdatedDate are assigned by the server and never sent on create.
type Beer struct {
	ID             uuid.UUID       `json:"id,omitzero"          yaml:"id"`
	Version        int             `json:"version,omitempty"    yaml:"version,omitempty"`
	Name           string          `json:"beerName"             yaml:"beerName"       validate:"required,max=50"`
	Style          Style           `json:"beerStyle"            yaml:"beerStyle"      validate:"required,beerstyle"`
	UPC            string          `json:"upc"                  yaml:"upc"            validate:"required,max=255"`
	Price          decimal.Decimal `json:"price"                yaml:"price"`
	QuantityOnHand int             `json:"quantityOnHand"       yaml:"quantityOnHand" validate:"gte=0"`
	CreatedDate    Timestamp       `json:"createdDate,omitzero" yaml:"createdDate,omitempty"`
	UpdatedDate    Timestamp       `json:"updatedDate,omitzero" yaml:"updatedDate,omitempty"`
}

// MarshalJSON implements json.Marshaler. Price is written as a JSON number
// rather than decimal's default quoted string.
func (b Beer) MarshalJSON() ([]byte, error) {
	type wireBeer Beer

	return json.Marshal(struct {
		wireBeer
		Price json.Number `json:"price"`
	}{
		wireBeer: wireBeer(b),
		Price:    json.Number(b.Price.String()),
	})
}

// CreatePayload returns a copy with every server-assigned field cleared,
// which is the representation sent when creating a beer.
func (b *Beer) CreatePayload() *Beer {
	draft := *b
	draft.ID = uuid.Nil
	draft.Version = 0
	draft.CreatedDate = Timestamp{}
	draft.UpdatedDate = Timestamp{}

	return &draft
}

// Page is a slice of a larger result set plus pagination metadata, decoded
// from the API's page envelope.
type Page[T any] struct {
	Content          []T   `json:"content"          yaml:"content"`
	Number           int   `json:"number"           yaml:"number"`
	Size             int   `json:"size"             yaml:"size"`
	TotalElements    int64 `json:"totalElements"    yaml:"totalElements"`
	TotalPages       int   `json:"totalPages"       yaml:"totalPages"`
	NumberOfElements int   `json:"numberOfElements" yaml:"numberOfElements"`
	First            bool  `json:"first"            yaml:"first"`
	Last             bool  `json:"last"             yaml:"last"`
}

// HasNext reports whether another page follows this one.
func (p *Page[T]) HasNext() bool {
	if p.TotalPages > 0 {
		return p.Number+1 < p.TotalPages
	}

	return !p.Last && len(p.Content) > 0
}

// BeerPage is a page of beers.
type BeerPage = Page[Beer]

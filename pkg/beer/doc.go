// Package beer provides types, interfaces, and helpers for working with the
// Beer REST API.
//
// # Overview
//
// The beer package defines the domain types (Beer, Style, Page) and the
// BeersClient interface. A concrete implementation is provided by the
// beerclient package, which wires configuration, transport and OAuth2
// client-credentials authentication. Most consumers should import beerclient
// to construct a client and then use the interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/beer-client/pkg/beer"
//	  "github.com/fivetwenty-io/beer-client/pkg/beerclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := beerclient.NewWithClientCredentials(ctx,
//	    "http://localhost:8080", "http://localhost:9000/oauth2/token",
//	    "messaging-client", "secret")
//	  if err != nil { log.Fatal(err) }
//
//	  page, err := cli.Beers().List(ctx, beer.NewFilter().WithStyle(beer.StyleIPA))
//	  if err != nil { log.Fatal(err) }
//	  _ = page
//	}
//
// # Queries and pagination
//
// Filter carries the optional list parameters. Absent fields are omitted from
// the query string and present ones are always emitted in the same order.
// The package also provides an iterator over all pages:
//
//	it := beer.NewPaginationIterator[beer.Beer](ctx, cli.Beers(), beer.NewFilter().WithPageSize(50))
//	for it.HasNext() {
//	  b, err := it.Next()
//	  if err != nil { break }
//	  _ = b
//	}
//
// # Errors
//
// Failures are reported as AuthenticationError, NotFoundError, RemoteError,
// DecodeError or ProtocolError. Each matches a sentinel with errors.Is, and
// helpers such as IsNotFound and IsAuthenticationFailure cover the common
// cases.
package beer

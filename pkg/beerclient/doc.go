// Package beerclient provides the primary entry point for constructing a Beer
// API client that implements the beer.Client interface.
//
// It layers configuration validation, HTTP transport and OAuth2
// client-credentials authentication on top of the resource interfaces and
// types defined in the beer package.
//
// Quick start
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
//
//	  cli, err := beerclient.New(ctx, &beer.Config{
//	    RootURL:      "http://localhost:8080",
//	    TokenURL:     "http://localhost:9000/oauth2/token",
//	    ClientID:     "messaging-client",
//	    ClientSecret: "secret",
//	    Scopes:       []string{"message.read", "message.write"},
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  created, err := cli.Beers().Create(ctx, &beer.Beer{
//	    Name:  "Mango Bobs",
//	    Style: beer.StyleIPA,
//	    UPC:   "0631234200036",
//	  })
//	  if err != nil { log.Fatal(err) }
//	  log.Println(created.ID)
//	}
//
// A root URL without a scheme is treated as https.
package beerclient

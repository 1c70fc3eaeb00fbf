package commands

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fivetwenty-io/beer-client/internal/constants"
	"github.com/fivetwenty-io/beer-client/pkg/beer"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var (
		name          string
		style         string
		showInventory string
		page          int
		pageSize      int
		all           bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List beers",
		Long:    "List beers, optionally filtered by name and style",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildFilter(cmd.Flags(), name, style, showInventory, page, pageSize)
			if err != nil {
				return err
			}

			config := loadConfig()

			client, err := createClient(cmd.Context(), config)
			if err != nil {
				return err
			}

			if all {
				beers, err := client.Beers().ListAll(cmd.Context(), filter)
				if err != nil {
					return fmt.Errorf("failed to list beers: %w", err)
				}

				return outputBeers(cmd.OutOrStdout(), config.Output, beers)
			}

			result, err := client.Beers().List(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("failed to list beers: %w", err)
			}

			return outputBeerPage(cmd.OutOrStdout(), config.Output, result)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by beer name")
	cmd.Flags().StringVar(&style, "style", "", "filter by beer style")
	cmd.Flags().StringVar(&showInventory, "show-inventory", "", "include quantity on hand (true or false)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.DefaultPageSize, "results per page")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")

	return cmd
}

// buildFilter turns the flags the user actually set into a filter, so unset
// flags are left out of the query.
func buildFilter(flags *pflag.FlagSet, name, style, showInventory string, page, pageSize int) (*beer.Filter, error) {
	filter := beer.NewFilter()

	if flags.Changed("name") {
		filter.WithName(name)
	}

	if flags.Changed("style") {
		parsed, err := beer.ParseStyle(style)
		if err != nil {
			return nil, err
		}

		filter.WithStyle(parsed)
	}

	if flags.Changed("show-inventory") {
		show, err := strconv.ParseBool(showInventory)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidShowInventory, showInventory)
		}

		filter.WithShowInventory(show)
	}

	if flags.Changed("page") {
		filter.WithPageNumber(page)
	}

	if flags.Changed("page-size") {
		filter.WithPageSize(min(pageSize, constants.MaxPageSize))
	}

	return filter, nil
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "get BEER_ID [BEER_ID...]",
		Short: "Get beer details",
		Long:  "Display detailed information about one or more beers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			config := loadConfig()

			client, err := createClient(cmd.Context(), config)
			if err != nil {
				return err
			}

			if len(ids) == 1 {
				item, err := client.Beers().Get(cmd.Context(), ids[0])
				if err != nil {
					return fmt.Errorf("failed to get beer: %w", err)
				}

				return outputBeer(cmd.OutOrStdout(), config.Output, item)
			}

			builder := beer.NewBatchBuilder()
			for _, id := range ids {
				builder.AddGet(id.String(), id)
			}

			results, err := beer.NewBatchExecutor(client.Beers(), concurrency).Execute(cmd.Context(), builder.Build())
			if err != nil {
				return fmt.Errorf("failed to get beers: %w", err)
			}

			found := make([]beer.Beer, 0, len(results))

			for _, result := range results {
				if !result.Success {
					return fmt.Errorf("failed to get beer %s: %w", result.ID, result.Error)
				}

				found = append(found, *result.Beer)
			}

			return outputBeers(cmd.OutOrStdout(), config.Output, found)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultConcurrencyLimit, "parallel requests when fetching several beers")

	return cmd
}

// beerFlags holds the writable beer fields accepted on the command line.
type beerFlags struct {
	name     string
	style    string
	upc      string
	price    string
	quantity int
}

func (f *beerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "beer name")
	cmd.Flags().StringVar(&f.style, "style", "", "beer style (e.g. IPA, PALE_ALE)")
	cmd.Flags().StringVar(&f.upc, "upc", "", "universal product code")
	cmd.Flags().StringVar(&f.price, "price", "", "price, e.g. 12.99")
	cmd.Flags().IntVar(&f.quantity, "quantity", 0, "quantity on hand")
}

// apply copies every changed flag onto item and reports whether any were set.
func (f *beerFlags) apply(flags *pflag.FlagSet, item *beer.Beer) (bool, error) {
	changed := false

	if flags.Changed("name") {
		item.Name = f.name
		changed = true
	}

	if flags.Changed("style") {
		style, err := beer.ParseStyle(f.style)
		if err != nil {
			return false, err
		}

		item.Style = style
		changed = true
	}

	if flags.Changed("upc") {
		item.UPC = f.upc
		changed = true
	}

	if flags.Changed("price") {
		price, err := decimal.NewFromString(f.price)
		if err != nil {
			return false, fmt.Errorf("%w: %q", constants.ErrInvalidPrice, f.price)
		}

		item.Price = price
		changed = true
	}

	if flags.Changed("quantity") {
		item.QuantityOnHand = f.quantity
		changed = true
	}

	return changed, nil
}

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var (
		fields   beerFlags
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a beer",
		Long:  "Create a new beer from flags or from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := buildDraft(cmd.Flags(), &fields, fromFile)
			if err != nil {
				return err
			}

			config := loadConfig()

			client, err := createClient(cmd.Context(), config)
			if err != nil {
				return err
			}

			created, err := client.Beers().Create(cmd.Context(), draft)
			if err != nil {
				return fmt.Errorf("failed to create beer: %w", err)
			}

			return outputBeer(cmd.OutOrStdout(), config.Output, created)
		},
	}

	fields.register(cmd)
	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "read the beer from a JSON or YAML file")

	return cmd
}

// buildDraft assembles a new beer from an optional file overlaid with flags.
func buildDraft(flags *pflag.FlagSet, fields *beerFlags, fromFile string) (*beer.Beer, error) {
	draft := &beer.Beer{}

	if fromFile != "" {
		loaded, err := readBeerFile(fromFile)
		if err != nil {
			return nil, err
		}

		draft = loaded.CreatePayload()
	}

	_, err := fields.apply(flags, draft)
	if err != nil {
		return nil, err
	}

	switch {
	case draft.Name == "":
		return nil, constants.ErrNameRequired
	case draft.Style == "":
		return nil, constants.ErrStyleRequired
	case draft.UPC == "":
		return nil, constants.ErrUPCRequired
	}

	err = beer.ValidateBeer(draft)
	if err != nil {
		return nil, err
	}

	return draft, nil
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var fields beerFlags

	cmd := &cobra.Command{
		Use:   "update BEER_ID",
		Short: "Update a beer",
		Long:  "Update the fields of an existing beer; unspecified fields keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			config := loadConfig()

			client, err := createClient(cmd.Context(), config)
			if err != nil {
				return err
			}

			current, err := client.Beers().Get(cmd.Context(), ids[0])
			if err != nil {
				return fmt.Errorf("failed to get beer: %w", err)
			}

			changed, err := fields.apply(cmd.Flags(), current)
			if err != nil {
				return err
			}

			if !changed {
				return constants.ErrNothingToUpdate
			}

			err = beer.ValidateBeer(current)
			if err != nil {
				return err
			}

			updated, err := client.Beers().Update(cmd.Context(), current)
			if err != nil {
				return fmt.Errorf("failed to update beer: %w", err)
			}

			return outputBeer(cmd.OutOrStdout(), config.Output, updated)
		},
	}

	fields.register(cmd)

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:     "delete BEER_ID [BEER_ID...]",
		Aliases: []string{"rm"},
		Short:   "Delete beers",
		Long:    "Delete one or more beers",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			config := loadConfig()

			client, err := createClient(cmd.Context(), config)
			if err != nil {
				return err
			}

			builder := beer.NewBatchBuilder()
			for _, id := range ids {
				builder.AddDelete(id.String(), id)
			}

			results, err := beer.NewBatchExecutor(client.Beers(), concurrency).Execute(cmd.Context(), builder.Build())
			if err != nil {
				return fmt.Errorf("failed to delete beers: %w", err)
			}

			err = outputBatchResults(cmd.OutOrStdout(), config.Output, results)
			if err != nil {
				return err
			}

			for _, result := range results {
				if !result.Success {
					return fmt.Errorf("failed to delete beer %s: %w", result.ID, result.Error)
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultConcurrencyLimit, "parallel delete requests")

	return cmd
}

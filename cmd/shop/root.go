package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"storefront/internal/app"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/view"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli holds what a command invocation needs once the root has started
type cli struct {
	loadConfig func() *config.Config
	logLevel   string

	cfg    *config.Config
	app    *app.App
	logger *zap.Logger
}

func newCLI() *cli {
	return &cli{loadConfig: config.Load}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "shop",
		Short:         "Browse the catalog, manage a cart and check out",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.start(cmd.Context(), cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.stop()
		},
	}

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newProductsCmd(c),
		newCategoriesCmd(c),
		newCartCmd(c),
		newCheckoutCmd(c),
	)

	return root
}

func (c *cli) start(ctx context.Context, logOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.cfg = c.loadConfig()
	c.logger = logger.NewJSON(logOut, c.logLevel)

	a, err := app.New(ctx, c.cfg, c.logger)
	if err != nil {
		return fmt.Errorf("failed to start storefront: %w", err)
	}
	c.app = a
	return nil
}

func (c *cli) stop() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	c.logger.Sync()
	return err
}

func (c *cli) cartKey() string {
	return c.cfg.Cart.Key
}

// explain turns errors a shopper can act on into text. Anything else is a
// real failure and is returned to cobra.
func explain(w io.Writer, err error) error {
	var fetchErr *catalog.FetchError

	switch {
	case errors.As(err, &fetchErr):
		fmt.Fprintln(w, view.LoadFailure)
	case errors.Is(err, catalog.ErrProductNotFound):
		fmt.Fprintln(w, "Product not found.")
	case errors.Is(err, cart.ErrEntryNotFound):
		fmt.Fprintln(w, "That item is not in the cart.")
	case errors.Is(err, cart.ErrOutOfRange):
		fmt.Fprintln(w, "There is no item at that position.")
	default:
		return err
	}
	return nil
}

// Command storefront is the interactive AuraWell shop client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aurawell/storefront/internal/client/apiclient"
	"github.com/aurawell/storefront/internal/client/cart"
	"github.com/aurawell/storefront/internal/client/catalog"
	"github.com/aurawell/storefront/internal/client/checkout"
	"github.com/aurawell/storefront/internal/client/imageurl"
	"github.com/aurawell/storefront/internal/client/session"
	"github.com/aurawell/storefront/internal/client/shell"
	"github.com/aurawell/storefront/internal/pkg/config"
	"github.com/aurawell/storefront/pkg/logger"
)

type flags struct {
	apiURL   string
	logLevel string
	pretty   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:          "storefront",
		Short:        "AuraWell wellness storefront client",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&f.apiURL, "api-url", "", "API base URL (overrides STOREFRONT_API_URL)")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	root.PersistentFlags().BoolVar(&f.pretty, "pretty", true, "human-readable logs on stderr")

	root.AddCommand(newShellCmd(&f), newProductsCmd(&f))
	return root
}

func newShellCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shopping session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := setup(ctx, f)
			if err != nil {
				return err
			}

			app.carts.Start(ctx)
			app.session.Resolve(ctx)

			sh := shell.New(shell.Deps{
				API:      app.client,
				Session:  app.session,
				Cart:     app.carts,
				Checkout: checkout.NewService(app.client, app.carts, logger.Component(app.log, "checkout")),
				Images:   app.images,
				Log:      logger.Component(app.log, "shell"),
			}, cmd.InOrStdin(), cmd.OutOrStdout())
			return sh.Run(ctx)
		},
	}
}

func newProductsCmd(f *flags) *cobra.Command {
	var crit catalog.Criteria
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := setup(cmd.Context(), f)
			if err != nil {
				return err
			}
			sh := shell.New(shell.Deps{
				API:     app.client,
				Session: app.session,
				Cart:    app.carts,
				Images:  app.images,
				Log:     app.log,
			}, cmd.InOrStdin(), cmd.OutOrStdout())

			line := "products"
			if crit.Category != "" || crit.AgeGroup != "" {
				cat := crit.Category
				if cat == "" {
					cat = "all"
				}
				line = fmt.Sprintf("products %s %s", cat, crit.AgeGroup)
			}
			return sh.Exec(cmd.Context(), line)
		},
	}
	cmd.Flags().StringVar(&crit.Category, "category", "", "vitamins, supplements or aromatherapy")
	cmd.Flags().StringVar(&crit.AgeGroup, "age-group", "", "toddler, child, teen, adult, elderly or all")
	return cmd
}

type app struct {
	client  *apiclient.Client
	session *session.Store
	carts   *cart.Store
	images  *imageurl.Resolver
	log     zerolog.Logger
}

func setup(ctx context.Context, f *flags) (*app, error) {
	cfg, err := config.LoadClient(ctx)
	if err != nil {
		return nil, err
	}
	if f.apiURL != "" {
		cfg.APIURL = f.apiURL
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  f.pretty,
		Service: "storefront",
		Output:  os.Stderr,
	})

	client, err := apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(cfg.Timeout),
		apiclient.WithLogger(logger.Component(log, "apiclient")),
	)
	if err != nil {
		return nil, err
	}

	sess := session.NewStore(client, logger.Component(log, "session"))
	return &app{
		client:  client,
		session: sess,
		carts:   cart.NewStore(client, sess, logger.Component(log, "cart")),
		images:  imageurl.NewResolver(client.BaseURL(), cfg.PlaceholderImage),
		log:     log,
	}, nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tradeforge/accountsync/internal/config"
	"github.com/tradeforge/accountsync/internal/devstub"
	"github.com/tradeforge/accountsync/internal/flags"
	"github.com/tradeforge/accountsync/internal/notify"
	"github.com/tradeforge/accountsync/internal/payment"
	"github.com/tradeforge/accountsync/internal/profile"
	"github.com/tradeforge/accountsync/internal/remote"
	"github.com/tradeforge/accountsync/internal/route"
	"github.com/tradeforge/accountsync/internal/settings"
	"github.com/tradeforge/accountsync/internal/wallet"
	"github.com/tradeforge/accountsync/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "accountsync",
		Usage: "Account console state-synchronization layer and its local development backend",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "api-port", Aliases: []string{"P"}, Usage: "Local backend listen port"},
			&cli.StringFlag{Name: "api-base-url", Aliases: []string{"b"}, Usage: "Account API base URL"},
			&cli.StringFlag{Name: "database-path", Aliases: []string{"d"}, Usage: "Local backend SQLite path"},
			&cli.StringFlag{Name: "return-url", Aliases: []string{"r"}, Usage: "Payment return URL"},
			&cli.StringFlag{Name: "placeholder-domain", Usage: "Email domain treated as unset"},
			&cli.StringFlag{Name: "mobile-prefix", Aliases: []string{"m"}, Usage: "Local mobile number prefix"},
			&cli.StringFlag{Name: "denominations-file", Usage: "YAML file with top-up denominations"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the local development backend",
				Action: func(c *cli.Context) error {
					return serve(c)
				},
			},
			{
				Name:  "demo",
				Usage: "Run a scripted end-to-end pass over the synchronization layer",
				Action: func(c *cli.Context) error {
					return demo(c)
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("api-base-url") {
		cfg.APIBaseURL = c.String("api-base-url")
	}
	if c.IsSet("database-path") {
		cfg.DatabasePath = c.String("database-path")
	}
	if c.IsSet("return-url") {
		cfg.PaymentReturnURL = c.String("return-url")
	}
	if c.IsSet("placeholder-domain") {
		cfg.PlaceholderEmailDomain = c.String("placeholder-domain")
	}
	if c.IsSet("mobile-prefix") {
		cfg.MobilePrefix = c.String("mobile-prefix")
	}
	if c.IsSet("denominations-file") {
		denominations, err := config.LoadDenominations(c.String("denominations-file"))
		if err != nil {
			return nil, fmt.Errorf("failed to load denominations: %v", err)
		}
		cfg.Denominations = denominations
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	store, err := devstub.NewStore(cfg.DatabasePath, log)
	if err != nil {
		return fmt.Errorf("failed to open store: %v", err)
	}
	defer store.Close()

	server := devstub.NewServer(store, cfg, log)
	go server.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	return server.Shutdown()
}

func demo(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// The demo runs against a throwaway in-memory database.
	cfg.DatabasePath = "file::memory:?cache=shared"

	log, err := logger.NewLogger(true)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	store, err := devstub.NewStore(cfg.DatabasePath, log)
	if err != nil {
		return fmt.Errorf("failed to open store: %v", err)
	}
	defer store.Close()

	server := devstub.NewServer(store, cfg, log)
	go server.Start()
	defer server.Shutdown()

	if err := waitForBackend(cfg.APIBaseURL); err != nil {
		return err
	}

	// Wire the synchronization layer the way the console page would.
	client := remote.NewClient(cfg.APIBaseURL, log)
	router := route.NewMemoryRouter()
	notifier := notify.NewFanout(notify.NewLogNotifier(log), notify.NewFeedNotifier(64))

	profileCtl := profile.NewController(client, client, notifier, log, cfg)
	walletCtl := wallet.NewController(client, notifier, router, log, cfg)
	reconciler := payment.NewReconciler(router, notifier, walletCtl, log)
	flagCache := flags.NewCache(client, log)
	settingsCtl := settings.NewController(client, client, flagCache, notifier, log)

	ctx := context.Background()

	// Profile: load, edit, submit.
	if err := profileCtl.LoadProfile(ctx); err != nil {
		return err
	}
	log.Info("Profile loaded ", "snapshot ", profileCtl.Snapshot())
	if err := profileCtl.BeginEdit(); err != nil {
		return err
	}
	profileCtl.SetEmail("demo@tradeforge.io")
	profileCtl.SetPhone("091-2345-6789")
	if err := profileCtl.Submit(ctx); err != nil {
		return err
	}

	// Wallet: top up and consume the processor's return redirect.
	if err := walletCtl.LoadBalance(ctx); err != nil {
		return err
	}
	if err := walletCtl.Charge(ctx, cfg.Denominations[0]); err != nil {
		return err
	}
	returnQuery, err := followCheckout(router.LastNavigation())
	if err != nil {
		return err
	}
	router.SetQuery(returnQuery)
	reconciler.React(ctx)
	log.Info("Wallet after payment ", "state ", walletCtl.Snapshot())

	// Admin settings: toggle, cost edit, cache clear.
	if err := settingsCtl.Load(ctx); err != nil {
		return err
	}
	if err := settingsCtl.Toggle(ctx, settings.FieldLiveTrading); err != nil {
		return err
	}
	log.Info("Live trading flag ", "enabled ", flagCache.LiveTradingEnabled())
	if err := settingsCtl.SetCost(settings.FieldBacktestCost, "50"); err != nil {
		return err
	}
	if err := settingsCtl.CommitCost(ctx, settings.FieldBacktestCost); err != nil {
		return err
	}
	if err := settingsCtl.RequestClearCache(); err != nil {
		return err
	}
	if err := settingsCtl.ClearCache(ctx); err != nil {
		return err
	}
	log.Info("Settings after demo ", "snapshot ", settingsCtl.Snapshot())

	return nil
}

// waitForBackend polls the backend until it accepts requests.
func waitForBackend(baseURL string) error {
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/api/payment/balance")
		if err == nil {
			resp.Body.Close()
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("local backend did not become ready at %s", baseURL)
}

// followCheckout fetches the processor checkout URL without following the
// redirect and returns the query parameters of the return target, i.e. what
// the browser's address bar would carry after the round trip.
func followCheckout(checkoutURL string) (url.Values, error) {
	if checkoutURL == "" {
		return nil, fmt.Errorf("no checkout URL was issued")
	}

	httpClient := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := httpClient.Get(checkoutURL)
	if err != nil {
		return nil, fmt.Errorf("failed to reach the checkout: %v", err)
	}
	defer resp.Body.Close()

	location, err := resp.Location()
	if err != nil {
		return nil, fmt.Errorf("checkout did not redirect: %v", err)
	}
	return location.Query(), nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/bitfsorg/libmint-go/config"
	"github.com/bitfsorg/libmint-go/events"
	"github.com/bitfsorg/libmint-go/httpapi"
	"github.com/bitfsorg/libmint-go/metrics"
	"github.com/bitfsorg/libmint-go/mint"
	"github.com/bitfsorg/libmint-go/network"
	"github.com/bitfsorg/libmint-go/paymail"
	"github.com/bitfsorg/libmint-go/settlement"
	"github.com/bitfsorg/libmint-go/wallet"
)

func GetServeCmdOpts() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the mint HTTP service",
		Action:  runServe,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "override the configured listen address",
			},
			&cli.BoolFlag{
				Name:  "no-settlement",
				Usage: "run without forwarding settlement payments",
			},
			&cli.StringFlag{
				Name:    "rpc-url",
				Usage:   "node JSON-RPC url used for settlement",
				Sources: cli.EnvVars(network.EnvRPCURL),
			},
			&cli.StringFlag{
				Name:    "dnssec",
				Usage:   "validate paymail SRV records through this DNSSEC resolver (host:port)",
				Sources: cli.EnvVars("MINT_DNSSEC_UPSTREAM"),
			},
		},
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	logger := App.logger
	secret := os.Getenv(EnvJWTSecret)
	if len(secret) < 32 {
		return fmt.Errorf("%s must hold at least 32 bytes", EnvJWTSecret)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)

	sink := events.MultiSink{events.NewLogSink(logger)}
	if len(App.cfg.KafkaBrokers) > 0 {
		client, err := events.DialKafka(App.cfg.KafkaBrokers, App.cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer client.Close()
		sink = append(sink, events.NewKafkaSink(client, App.cfg.KafkaTopic))
	}

	sale, err := config.LoadSale(App.cfg.SalePath())
	if err != nil {
		return err
	}

	opts := []mint.Option{mint.WithEventSink(sink), mint.WithMetrics(m)}
	var dispatcher *settlement.Dispatcher
	if sale.Settlement.Amount > 0 && !cmd.Bool("no-settlement") {
		dispatcher, err = newDispatcher(ctx, cmd, sale, m)
		if err != nil {
			return err
		}
		opts = append(opts, mint.WithSettler(dispatcher))
	}

	engine, st, err := App.openEngine(sale, opts...)
	if err != nil {
		return err
	}
	defer st.Close()

	if supply, err := engine.TotalSupply(); err == nil {
		m.SetSupply(supply)
	}

	r := chi.NewRouter()
	httpapi.New(engine, httpapi.NewTokenService([]byte(secret), ""), logger).Register(r)
	r.Handle("/metrics", promhttp.Handler())

	addr := App.cfg.ListenAddr
	if l := cmd.String("listen"); l != "" {
		addr = l
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(ctx, "listening", "addr", addr, "sale_owner", sale.Owner)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if dispatcher != nil {
		g.Go(func() error {
			return dispatcher.Run(ctx)
		})
	}
	return g.Wait()
}

// newDispatcher unlocks the treasury key and builds the settlement pipeline.
func newDispatcher(ctx context.Context, cmd *cli.Command, sale config.Sale, m *metrics.Metrics) (*settlement.Dispatcher, error) {
	logger := App.logger
	netCfg, err := wallet.GetNetwork(App.cfg.Network)
	if err != nil {
		return nil, err
	}
	pass := os.Getenv(EnvTreasuryPass)
	if pass == "" {
		return nil, fmt.Errorf("%s is required to unlock the treasury key (or pass --no-settlement)", EnvTreasuryPass)
	}
	w, err := wallet.OpenKeyFile(App.keyFilePath(), pass, netCfg)
	if err != nil {
		return nil, err
	}
	kp, err := w.TreasuryKey(sale.Settlement.KeyIndex)
	if err != nil {
		return nil, err
	}
	source, err := w.Address(kp)
	if err != nil {
		return nil, err
	}

	rpcCfg, err := network.ResolveConfig(&network.RPCConfig{URL: cmd.String("rpc-url")}, rpcEnv(), App.cfg.Network)
	if err != nil {
		return nil, err
	}
	node := network.NewRPCClient(*rpcCfg)
	if err := node.ImportAddress(ctx, source); err != nil {
		logger.WarnContext(ctx, "treasury address not imported", "address", source, "error", err)
	}

	popts := []paymail.Option{paymail.WithSenderName("mintd")}
	if upstream := cmd.String("dnssec"); upstream != "" {
		popts = append(popts, paymail.WithDNSResolver(paymail.NewDNSSECResolver(upstream)))
	}
	resolver := paymail.NewResolver(popts...)
	feeRate := sale.Settlement.FeeRate
	if feeRate == 0 {
		feeRate = 1
	}
	transferer, err := settlement.NewBSVTransferer(node, kp.PrivateKey, source, resolver, feeRate)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "settlement enabled",
		"source", source, "destination", sale.Settlement.Destination, "amount", sale.Settlement.Amount)

	return settlement.NewDispatcher(transferer, sale.Settlement.Destination,
		settlement.WithLogger(logger),
		settlement.WithMetrics(m),
	)
}

func rpcEnv() map[string]string {
	env := make(map[string]string, 3)
	for _, k := range []string{network.EnvRPCURL, network.EnvRPCUser, network.EnvRPCPass} {
		env[k] = os.Getenv(k)
	}
	return env
}

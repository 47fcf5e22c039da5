package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"zone_heating/internal/cache"
	"zone_heating/internal/handlers"
	"zone_heating/internal/hardware"
	"zone_heating/internal/metrics"
	"zone_heating/internal/server"
	"zone_heating/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Run the HTTP API and the heating driver",
	Long:    `Serve the HTTP API and apply resolved targets to every zone on each tick until interrupted.`,
	Args:    cobra.NoArgs,
	GroupID: groupService,
	RunE:    runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := a.serviceOptions()
	if err != nil {
		return err
	}
	if len(opts.SigningKey) == 0 {
		if opts.SigningKey, err = randomKey(); err != nil {
			return err
		}
		a.log.Warnw("auth.signing_key is empty, using a random key for this run")
	}

	collector := metrics.New()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collector,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	opts.Metrics = collector

	if a.cfg.Redis.Enabled {
		rc := cache.NewRedis(cache.NewClient(a.cfg.Redis), a.cfg.Redis.TTL)
		defer func() { _ = rc.Close() }()
		if err := rc.Ping(ctx); err != nil {
			return fmt.Errorf("redis at %s: %w", a.cfg.Redis.Addr, err)
		}
		opts.Cache = rc
	}

	var bridge *hardware.Bridge
	if a.cfg.MQTT.Enabled {
		bridge, err = hardware.Connect(a.cfg.MQTT, a.log.With("component", "mqtt"))
		if err != nil {
			return err
		}
		defer bridge.Close()
		opts.Publisher = bridge
	}

	services := service.NewService(a.repos, opts)
	if bridge != nil {
		if err := bridge.Listen(services); err != nil {
			return err
		}
	}

	h := handlers.NewHandler(services, a.log, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := server.New()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, a.cfg.Port, h.InitRoutes())
	})
	g.Go(func() error {
		services.Driver.Run(ctx, a.cfg.Heating.Tick)
		return nil
	})

	a.log.Infow("heating service started",
		"port", a.cfg.Port,
		"db", a.cfg.DB.Driver,
		"tick", a.cfg.Heating.Tick,
		"redis", a.cfg.Redis.Enabled,
		"mqtt", a.cfg.MQTT.Enabled,
	)
	err = g.Wait()
	a.log.Infow("heating service stopped", "err", err)
	return err
}

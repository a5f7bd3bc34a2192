package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AntIg86/TideTimeBot/pkg/bot"
	"github.com/AntIg86/TideTimeBot/pkg/data"
	"github.com/AntIg86/TideTimeBot/pkg/geocode"
	"github.com/AntIg86/TideTimeBot/pkg/handlers"
	"github.com/AntIg86/TideTimeBot/pkg/metrics"
	"github.com/AntIg86/TideTimeBot/pkg/openmeteo"
	"github.com/AntIg86/TideTimeBot/pkg/service"
)

type Config struct {
	Port   string `default:"8080"`
	Prefix string `default:"/"`

	TelegramToken    string        `split_words:"true"`
	GeocodeCachePath string        `split_words:"true" default:"geocode-cache.json"`
	ResultCacheTTL   time.Duration `split_words:"true" default:"10m"`
	UpstreamTimeout  time.Duration `split_words:"true" default:"10s"`
}

func main() {
	// A .env file is optional; real deployments set the environment.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	var env Config
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	geocoder, err := geocode.NewFileCached(geocode.NewClient(env.UpstreamTimeout), env.GeocodeCachePath)
	if err != nil {
		log.Fatalf("failed to open geocode cache %s: %v", env.GeocodeCachePath, err)
	}

	svc := service.New(geocoder, openmeteo.NewClient(env.UpstreamTimeout), clockwork.NewRealClock())

	// Favorites need Postgres; run without them when it is not configured.
	db, err := data.PostgresFromEnv()
	if err != nil {
		log.Printf("favorites disabled: %v", err)
		db = nil
	}

	if env.TelegramToken != "" {
		b, err := bot.New(env.TelegramToken, svc, db)
		if err != nil {
			log.Fatalf("failed to start bot: %v", err)
		}
		go b.Run(ctx)
	} else {
		log.Print("TELEGRAM_TOKEN not set, chat frontend disabled")
	}

	r := mux.NewRouter().StrictSlash(true)
	s := r.PathPrefix(env.Prefix).Subrouter()
	handlers.Register(s, svc, env.ResultCacheTTL)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Handler:      metrics.LatencyHandler(r),
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Listening and serving on %s%s", srv.Addr, env.Prefix)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"

	"github.com/eventhub/datagen/config"
	"github.com/eventhub/datagen/internal/handler"
	"github.com/eventhub/datagen/internal/loader"
	"github.com/eventhub/datagen/internal/models"
	"github.com/eventhub/datagen/internal/pipeline"
	"github.com/eventhub/datagen/internal/producer"
	"github.com/eventhub/datagen/internal/sink"
	"github.com/eventhub/datagen/pkg/database"
	"github.com/eventhub/datagen/pkg/rabbitmq"
)

func main() {
	testMode := flag.Bool("test", false, "reduced-volume test run")
	rewrite := flag.Bool("rewrite", false, "clear existing data and regenerate from zero")
	skipList := flag.String("skip", "", "comma-separated entity types to skip")
	load := flag.Bool("load", false, "push generated datasets into Postgres after the run")
	serve := flag.Bool("serve", false, "serve the dataset inspection API after the run")
	flag.Parse()

	cfg := config.Load()

	fileSink, err := sink.NewJSONLSink(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open data sink: %v", err)
	}

	var dataSink sink.Sink = fileSink
	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		dataSink = sink.NewPublishingSink(fileSink, publisher)
	}

	var fields producer.FieldProducer
	if cfg.ProducerURL != "" {
		fields = producer.NewHTTPProducer(cfg.ProducerURL, cfg.ProducerTimeout)
	} else {
		log.Println("no producer URL configured, generating with fallback fields")
		fields = producer.NewStatic()
	}

	opts := pipeline.Options{
		Mode:   pipeline.ModeAppend,
		Counts: config.TargetCounts(),
		Seed:   cfg.Seed,
	}
	if *testMode {
		opts.Mode = pipeline.ModeReduced
		opts.Counts = config.ReducedCounts()
	}
	if *rewrite {
		opts.Mode = pipeline.ModeRewrite
	}
	opts.Skip, err = parseSkip(*skipList)
	if err != nil {
		log.Fatalf("invalid -skip: %v", err)
	}

	ctx := context.Background()
	summary, err := pipeline.New(dataSink, fields).Run(ctx, opts)
	if err != nil {
		log.Fatalf("pipeline run failed: %v", err)
	}
	for _, r := range summary.Results {
		switch {
		case r.Skipped:
			log.Printf("  %-14s skipped", r.Entity)
		case r.Err != nil:
			log.Printf("  %-14s FAILED: %v", r.Entity, r.Err)
		default:
			log.Printf("  %-14s %d/%d appended", r.Entity, r.Appended, r.Requested)
		}
	}

	if *load {
		db, err := database.NewPostgresDB(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("failed to open Postgres: %v", err)
		}
		if err := loader.New(db).LoadAll(ctx, dataSink); err != nil {
			log.Fatalf("load failed: %v", err)
		}
	}

	if *serve {
		e := echo.New()
		e.Use(echoMw.Recover())
		e.GET("/health", func(c echo.Context) error {
			return c.JSON(200, map[string]string{"status": "ok", "service": "datagen"})
		})
		handler.NewDatasetHandler(dataSink).RegisterRoutes(e)

		log.Printf("dataset API starting on :%s", cfg.ServerPort)
		e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
	}
}

func parseSkip(s string) ([]models.EntityType, error) {
	if s == "" {
		return nil, nil
	}
	var skip []models.EntityType
	for _, part := range strings.Split(s, ",") {
		entity := models.EntityType(strings.TrimSpace(part))
		if !entity.Valid() {
			return nil, fmt.Errorf("unknown entity type %q", entity)
		}
		skip = append(skip, entity)
	}
	return skip, nil
}

// MIT License
//
// Copyright (c) 2024-2026 Banksys Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	goakt "github.com/tochemey/goakt/v4/actor"
	"github.com/tochemey/goakt/v4/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/banksys/accounts/internal/clock"
	"github.com/banksys/accounts/internal/engine"
	"github.com/banksys/accounts/internal/persistence"
	"github.com/banksys/accounts/internal/service"
)

func initTracer(ctx context.Context, res *resource.Resource, traceURL string) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(traceURL),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp, nil
}

func initMeter(res *resource.Resource, port int, logger log.Logger) (*metric.MeterProvider, error) {
	metricExporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	meterProvider := metric.NewMeterProvider(
		metric.WithReader(metricExporter),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
	logger.Infof("Prometheus server running on :%d", port)
	return meterProvider, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the account service",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := log.NewSlog(log.InfoLevel, os.Stdout)

		_ = godotenv.Load()

		config, err := service.GetConfig()
		if err != nil {
			logger.Fatal(err)
		}

		dbConfig, err := persistence.LoadConfig()
		if err != nil {
			logger.Fatal(err)
		}

		res, err := resource.New(ctx,
			resource.WithHost(),
			resource.WithProcess(),
			resource.WithTelemetrySDK(),
			resource.WithAttributes(
				semconv.ServiceNameKey.String(config.ActorSystemName),
			),
		)
		if err != nil {
			logger.Fatal(err)
		}

		if _, err := initTracer(ctx, res, config.TraceURL); err != nil {
			logger.Fatal(err)
		}
		if _, err := initMeter(res, config.MetricsPort, logger); err != nil {
			logger.Fatal(err)
		}

		store := persistence.NewPostgresStore(dbConfig)
		if err := store.Start(ctx); err != nil {
			logger.Fatal(err)
		}

		actorSystem, err := goakt.NewActorSystem(
			config.ActorSystemName,
			goakt.WithLogger(logger),
			goakt.WithActorInitMaxRetries(3),
		)
		if err != nil {
			logger.Fatal(err)
		}

		if err := actorSystem.Start(ctx); err != nil {
			logger.Fatal(err)
		}

		eng := engine.NewEngine(store, clock.System(), logger)
		manager := engine.NewManager(store, logger)

		accountService := service.NewAccountService(actorSystem, manager, eng, config.Port, logger)
		accountService.Start()

		sigs := make(chan os.Signal, 1)
		done := make(chan struct{}, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigs

			logger.Info("shutting down...")
			if err := accountService.Stop(ctx); err != nil {
				logger.Errorf("error stopping account service: %v", err)
			}

			if err := actorSystem.Stop(ctx); err != nil {
				logger.Errorf("error stopping actor system: %v", err)
			}

			if err := store.Stop(); err != nil {
				logger.Errorf("error stopping persistence: %v", err)
			}

			done <- struct{}{}
		}()

		<-done
	},
}

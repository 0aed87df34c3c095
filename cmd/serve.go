// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"runtime/trace"

	"github.com/penny-vault/rebalance-engine/allocation"
	"github.com/penny-vault/rebalance-engine/common"
	"github.com/penny-vault/rebalance-engine/database"
	"github.com/penny-vault/rebalance-engine/handler"
	"github.com/penny-vault/rebalance-engine/jwks"
	"github.com/penny-vault/rebalance-engine/middleware"
	"github.com/penny-vault/rebalance-engine/router"

	"github.com/go-co-op/gocron"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	viper.BindEnv("server.cors_allow_origins", "CORS_ALLOW_ORIGINS")
	serveCmd.Flags().String("cors-allow-origins", "*", "Comma-separated list of allowed CORS origins")
	viper.BindPFlag("server.cors_allow_origins", serveCmd.Flags().Lookup("cors-allow-origins"))

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the rebalance-engine server",
	Long:  `Run HTTP server that exposes allocation analysis, drift summaries, rebalancing suggestions, and performance calculations`,
	Run: func(cmd *cobra.Command, args []string) {
		if Profile {
			f, err := os.Create("profile.out")
			if err != nil {
				log.Error().Err(err).Msg("could not create profile.out")
			}
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}

		if Trace {
			f, err := os.Create("trace.out")
			if err != nil {
				log.Fatal().Err(err).Msg("failed to create trace output file")
			}
			defer func() {
				if err := f.Close(); err != nil {
					log.Fatal().Err(err).Msg("failed to close trace file")
				}
			}()

			if err := trace.Start(f); err != nil {
				log.Fatal().Err(err).Msg("failed to start trace")
			}
			defer trace.Stop()
		}

		common.SetupLogging()
		common.SetupCache()
		log.Info().Msg("initialized logging")

		// setup database
		if err := database.Connect(); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		log.Info().Msg("connected to database")

		strategyStore := database.NewStrategyStore()
		portfolioProvider := database.NewPortfolioProvider()
		handler.Configure(strategyStore, portfolioProvider)

		// Create new Fiber instance
		app := fiber.New()

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("app shutdown failed")
			}
		}()

		// Configure CORS
		corsConfig := cors.Config{
			AllowOrigins: viper.GetString("server.cors_allow_origins"),
			AllowHeaders: "Accept, Authorization, Content-Type, Origin, X-Requested-With",
			AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		}
		app.Use(cors.New(corsConfig))

		// Setup logging middleware
		app.Use(middleware.NewLogger())

		// Configure authentication
		jwksAutoRefresh, jwksUrl := jwks.SetupJWKS()

		// Setup routes
		router.SetupRoutes(app, jwksAutoRefresh, jwksUrl)

		// Keep cached drift summaries warm for every user with an active strategy
		scheduler := gocron.NewScheduler(common.GetTimezone())
		if _, err := scheduler.Every(1).Hours().Do(func() {
			refreshDriftSummaries(context.Background(), strategyStore, portfolioProvider)
		}); err != nil {
			log.Error().Err(err).Msg("could not schedule drift summary refresh job")
		}
		scheduler.StartAsync()

		// Start server on http://${heroku-url}:${port}
		err := app.Listen(":" + viper.GetString("server.port"))
		if err != nil {
			log.Fatal().Err(err).Msg("app.Listen returned an error")
		}
	},
}

// refreshDriftSummaries recomputes and caches the DriftSummary for every
// user with an active strategy, keeping the dashboard's cached response
// warm between requests.
func refreshDriftSummaries(ctx context.Context, store *database.StrategyStore, provider *database.PortfolioProvider) {
	userIDs, err := store.ListActiveStrategyUserIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not list users with an active strategy")
		return
	}

	for _, userID := range userIDs {
		strategy, err := store.GetActiveStrategy(ctx, userID)
		if err != nil || strategy == nil {
			continue
		}

		snapshot, err := provider.Holdings(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("UserID", userID).Msg("could not load holdings for drift refresh")
			continue
		}

		summary := allocation.Summarize(strategy, snapshot.Holdings)
		blob, err := json.Marshal(summary)
		if err != nil {
			log.Warn().Err(err).Str("UserID", userID).Msg("could not marshal drift summary")
			continue
		}

		if err := common.CacheSet(fmt.Sprintf("%s:drift", userID), blob); err != nil {
			log.Warn().Err(err).Str("UserID", userID).Msg("could not cache refreshed drift summary")
		}
	}
}

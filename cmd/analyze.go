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
	"time"

	"github.com/goccy/go-json"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/penny-vault/rebalance-engine/allocation"
	"github.com/penny-vault/rebalance-engine/common"
	"github.com/penny-vault/rebalance-engine/database"
	"github.com/penny-vault/rebalance-engine/portfolio"
)

var analyzeUserID string
var analyzeActivitiesFile string
var analyzeCurrentValue string

func init() {
	analyzeCmd.Flags().StringVar(&analyzeUserID, "user", "", "user ID to compute allocation drift for")
	analyzeCmd.Flags().StringVar(&analyzeActivitiesFile, "activities", "", "path to a JSON file of activities to chart TTWROR for")
	analyzeCmd.Flags().StringVar(&analyzeCurrentValue, "current-value", "0", "current portfolio value, used with --activities")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print an allocation drift table and a TTWROR sparkline",
	Long:  `Connects to the database to print a drift table for a user's active strategy, and/or charts the cumulative TTWROR series for a supplied activity stream.`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		if analyzeUserID != "" {
			if err := database.Connect(); err != nil {
				log.Fatal().Err(err).Msg("database connection failed")
			}
			printDriftTable(analyzeUserID)
		}

		if analyzeActivitiesFile != "" {
			printTTWRORSparkline(analyzeActivitiesFile, analyzeCurrentValue)
		}

		if analyzeUserID == "" && analyzeActivitiesFile == "" {
			fmt.Println("nothing to analyze; pass --user and/or --activities")
		}
	},
}

func printDriftTable(userID string) {
	ctx := context.Background()
	store := database.NewStrategyStore()
	provider := database.NewPortfolioProvider()

	strategy, err := store.GetActiveStrategy(ctx, userID)
	if err != nil {
		log.Fatal().Err(err).Str("UserID", userID).Msg("could not load active strategy")
	}
	if strategy == nil {
		fmt.Println("no active strategy for user")
		return
	}

	snapshot, err := provider.Holdings(ctx, userID)
	if err != nil {
		log.Fatal().Err(err).Str("UserID", userID).Msg("could not load holdings")
	}

	analysis := allocation.Analyze(*strategy, snapshot.Holdings)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Class", "Sub-Class", "Actual %", "Target %", "Drift", "Status"})
	table.SetBorder(false)

	for _, class := range analysis.ClassRows {
		table.Append([]string{
			string(class.AssetClass), "", class.ActualPercent.StringFixed(2),
			class.TargetPercent.StringFixed(2), class.DriftPercent.StringFixed(2), string(class.Status),
		})
		for _, sub := range class.SubClasses {
			table.Append([]string{
				"", string(sub.AssetSubClass), sub.ActualPercentOfTotal.StringFixed(2),
				sub.TargetPercentOfTotal.StringFixed(2), sub.DriftPercent.StringFixed(2), string(sub.Status),
			})
		}
	}

	table.Render()
	fmt.Printf("Overall status: %s\n", analysis.OverallStatus)
}

func printTTWRORSparkline(path, currentValueStr string) {
	blob, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("Path", path).Msg("could not read activities file")
	}

	var activities []*portfolio.Activity
	if err := json.Unmarshal(blob, &activities); err != nil {
		log.Fatal().Err(err).Str("Path", path).Msg("could not parse activities file")
	}

	currentValue, err := decimal.NewFromString(currentValueStr)
	if err != nil {
		log.Fatal().Err(err).Str("CurrentValue", currentValueStr).Msg("could not parse --current-value")
	}

	sorted := portfolio.SortActivities(activities)
	if len(sorted) == 0 {
		fmt.Println("no activities to chart")
		return
	}
	start := sorted[0].Date
	end := time.Now()

	result := portfolio.CalculatePerformance(activities, nil, start, end, currentValue)

	series := make([]float64, len(result.TTWROR.Series))
	for i, v := range result.TTWROR.Series {
		series[i], _ = v.Float64()
	}

	if len(series) == 0 {
		fmt.Println("no TTWROR data to chart")
		return
	}

	graph := asciigraph.Plot(series, asciigraph.Height(10), asciigraph.Caption("cumulative TTWROR"))
	fmt.Println(graph)
}

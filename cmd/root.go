// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
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

	"github.com/penny-vault/pvcombo/common"
	"github.com/penny-vault/pvcombo/data/database"
	"github.com/penny-vault/pvcombo/observability/opentelemetry"
	"github.com/rs/zerolog/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	pricesFlag  bool
	startFlag   string
	endFlag     string
	formatFlag  string
	otelCleanup func(context.Context) error
)

func init() {
	// Database
	viper.BindEnv("database.url", "DATABASE_URL")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string used by db:TICKER series")
	viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url"))

	// Cache
	viper.SetDefault("cache.local_size", 128)
	viper.SetDefault("cache.ttl", 86400)
	viper.BindEnv("cache.redis_url", "REDIS_URL")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis server used to share cached series, if blank only the local cache is used")
	viper.BindPFlag("cache.redis_url", rootCmd.PersistentFlags().Lookup("redis-url"))

	// Tracing
	viper.BindEnv("otlp.endpoint", "OTLP_ENDPOINT")

	// Logging configuration
	viper.BindEnv("log.level", "PVCOMBO_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "PVCOMBO_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "PVCOMBO_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", true, "Format logs for a human reader")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Series selection
	rootCmd.PersistentFlags().BoolVar(&pricesFlag, "prices", false, "CSV series contain prices instead of returns")
	rootCmd.PersistentFlags().StringVar(&startFlag, "start", "", "First date (YYYY-MM-DD) of the series to use")
	rootCmd.PersistentFlags().StringVar(&endFlag, "end", "", "Last date (YYYY-MM-DD) of the series to use")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "table", "Output format one of: `table`, or `json`")
}

var rootCmd = &cobra.Command{
	Use:     "pvcombo",
	Version: common.CurrentVersion.String(),
	Short:   "Analyze blends of two investment return series",
	Long: `pvcombo computes the annualized return and volatility of every blend of two
return series, finds the volatility minimizing blend over a rolling window and
summarizes the performance of return series.

Series are CSV files with a date and a value column, or db:TICKER to load
adjusted close prices from the penny vault database.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		var err error
		otelCleanup, err = opentelemetry.Setup()
		if err != nil {
			log.Error().Err(err).Msg("could not setup tracing")
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if database.Connected() {
			if n := database.LogOpenTransactions(); n > 0 {
				log.Warn().Int("NumOpen", n).Msg("database transactions left open")
			}
		}

		if otelCleanup != nil {
			if err := otelCleanup(context.Background()); err != nil {
				log.Warn().Err(err).Msg("could not flush traces")
			}
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

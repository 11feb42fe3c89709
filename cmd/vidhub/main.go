// @title           VidHub API
// @version         1.0
// @description     视频分享平台的互动与聚合接口
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/vidhub/config"
	"github.com/d60-Lab/vidhub/internal/api/middleware"
	"github.com/d60-Lab/vidhub/pkg/database"
	"github.com/d60-Lab/vidhub/pkg/logger"
)

var (
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "vidhub",
		Short: "VidHub engagement and aggregation API",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			return logger.Init(cfg.Log)
		},
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  func(cmd *cobra.Command, args []string) error { return serve(cmd.Context()) },
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.InitDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.Migrate(db); err != nil {
				return err
			}
			logger.Info("migration finished")
			return nil
		},
	}

	tokenTTL time.Duration
	tokenCmd = &cobra.Command{
		Use:   "token [userId]",
		Short: "Issue a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auth := middleware.NewAuthenticator(cfg.JWT.Secret, cfg.JWT.Issuer)
			token, err := auth.Issue(args[0], tokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	autoMigrate bool
)

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "run migrations before serving")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

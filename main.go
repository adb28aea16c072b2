// @title LingoChat 后端 API
// @version 1.0
// @description 语言练习聊天机器人的后端服务：账户、聊天、练习会话与仪表盘。

// @host localhost:5000
// @BasePath /api/chat
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"fmt"
	"lingochat_backend/internal/app"
	"lingochat_backend/internal/config"
	"lingochat_backend/pkg/logger"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	forceMigrate bool
	digestUser   string

	adminName     string
	adminEmail    string
	adminPassword string
)

var rootCmd = &cobra.Command{
	Use:   "lingochat",
	Short: "Language practice chatbot backend",
	// 不带子命令时直接启动服务
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.ForceMigrate = true
		cfg.MigrateOnly = true

		application := app.NewApp(cfg)
		defer application.Close(context.Background())

		log.Println("数据库迁移完成，退出程序")
		return nil
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send today's conversation digest to a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if digestUser == "" {
			return fmt.Errorf("--user is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		application := app.NewApp(cfg)
		defer application.Close(context.Background())

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		sent, err := application.SendDigest(ctx, digestUser)
		if err != nil {
			return err
		}
		if sent {
			fmt.Fprintf(cmd.OutOrStdout(), "digest sent to %s\n", digestUser)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "no digest sent to %s (no email address)\n", digestUser)
		}
		return nil
	},
}

// adminCmd 公开注册只能得到普通用户，第一个管理员从这里创建
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" || adminPassword == "" {
			return fmt.Errorf("--email and --password are required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		application := app.NewApp(cfg)
		defer application.Close(context.Background())

		name := adminName
		if name == "" {
			name = adminEmail
		}
		user, err := application.CreateAdmin(cmd.Context(), name, adminEmail, adminPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs", "Directory containing config.yaml")
	rootCmd.PersistentFlags().BoolVar(&forceMigrate, "migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	digestCmd.Flags().StringVar(&digestUser, "user", "", "User id or email")

	adminCmd.Flags().StringVar(&adminName, "name", "", "Display name")
	adminCmd.Flags().StringVar(&adminEmail, "email", "", "Login email")
	adminCmd.Flags().StringVar(&adminPassword, "password", "", "Login password")

	rootCmd.AddCommand(serveCmd, migrateCmd, digestCmd, adminCmd)
}

func loadConfig() (*config.Config, error) {
	// .env 缺失不是错误
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ForceMigrate = forceMigrate
	return cfg, nil
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.ConfigDir = configPath
	application.Run()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

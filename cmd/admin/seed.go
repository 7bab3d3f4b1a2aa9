package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"resumeforge/internal/config"
	"resumeforge/internal/database"
	"resumeforge/internal/schema"
	"resumeforge/internal/templates"
)

type dbFlags struct {
	host     string
	port     int
	name     string
	user     string
	password string
	sslmode  string
}

func newSeedCommand() *cobra.Command {
	var f dbFlags
	cmd := &cobra.Command{
		Use:   "seed-templates",
		Short: "写入或刷新内置模板",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbCfg, err := loadDatabaseConfig(f)
			if err != nil {
				return fmt.Errorf("load database config: %w", err)
			}
			db, err := database.Open(cmd.Context(), dbCfg)
			if err != nil {
				return fmt.Errorf("init database: %w", err)
			}

			builtins, err := schema.LoadBuiltins()
			if err != nil {
				return fmt.Errorf("load builtin templates: %w", err)
			}
			svc := templates.NewService(templates.NewStore(db))
			if err := svc.Seed(cmd.Context(), builtins); err != nil {
				return fmt.Errorf("seed templates: %w", err)
			}

			for _, t := range builtins {
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %s (%s)\n", t.ID, t.Name)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.host, "db-host", "", "数据库 Host（可选，默认读 DATABASE_HOST）")
	flags.IntVar(&f.port, "db-port", 0, "数据库 Port（可选，默认读 DATABASE_PORT）")
	flags.StringVar(&f.name, "db-name", "", "数据库名（可选，默认读 POSTGRES_DB）")
	flags.StringVar(&f.user, "db-user", "", "数据库用户（可选，默认读 POSTGRES_USER）")
	flags.StringVar(&f.password, "db-password", "", "数据库密码（可选，默认读 POSTGRES_PASSWORD）")
	flags.StringVar(&f.sslmode, "db-sslmode", "", "数据库 SSLMODE（可选，默认读 DATABASE_SSLMODE）")
	return cmd
}

// loadDatabaseConfig 只读取数据库相关配置，避免运维命令依赖 MinIO 等无关变量。
func loadDatabaseConfig(f dbFlags) (config.DatabaseConfig, error) {
	host := firstNonEmpty(f.host, os.Getenv("DATABASE_HOST"), "localhost")
	name := firstNonEmpty(f.name, os.Getenv("POSTGRES_DB"))
	user := firstNonEmpty(f.user, os.Getenv("POSTGRES_USER"))
	password := firstNonEmpty(f.password, os.Getenv("POSTGRES_PASSWORD"))
	sslmode := firstNonEmpty(f.sslmode, os.Getenv("DATABASE_SSLMODE"), "disable")

	port := f.port
	if port <= 0 {
		if env := strings.TrimSpace(os.Getenv("DATABASE_PORT")); env != "" {
			p, err := strconv.Atoi(env)
			if err != nil {
				return config.DatabaseConfig{}, fmt.Errorf("parse DATABASE_PORT: %w", err)
			}
			port = p
		}
	}
	if port <= 0 {
		port = 5432
	}

	if name == "" {
		return config.DatabaseConfig{}, errors.New("database name is required (POSTGRES_DB)")
	}
	if user == "" {
		return config.DatabaseConfig{}, errors.New("database user is required (POSTGRES_USER)")
	}
	if password == "" {
		return config.DatabaseConfig{}, errors.New("database password is required (POSTGRES_PASSWORD)")
	}

	return config.DatabaseConfig{
		Host:     host,
		Port:     port,
		Name:     name,
		User:     user,
		Password: password,
		SSLMode:  sslmode,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

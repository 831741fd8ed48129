package cmd

import (
	"path/filepath"

	internalApp "github.com/haierkeys/note-tree-service/internal/app"
	"github.com/haierkeys/note-tree-service/internal/dao"
	"github.com/haierkeys/note-tree-service/internal/upgrade"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Apply pending database migrations and exit",
	Long: `Apply pending database migrations and exit.

Already applied migrations are recorded in the schema_version table and skipped,
so the command is safe to run multiple times.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		if len(configPath) <= 0 {
			configPath = "config/config.yaml"
		}

		appConfig, configRealpath, err := internalApp.LoadConfig(configPath)
		if err != nil {
			bootstrapLogger.Error("failed to load config", zap.Error(err))
			return
		}

		db, err := dao.NewDBEngineWithConfig(appConfig.Database, bootstrapLogger)
		if err != nil {
			bootstrapLogger.Error("failed to open database", zap.Error(err))
			return
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		ref := filepath.Join(filepath.Dir(configRealpath), "lastVersion")
		if err := upgrade.Execute(db, bootstrapLogger, internalApp.Version, ref); err != nil {
			bootstrapLogger.Error("upgrade failed", zap.Error(err))
			return
		}
		bootstrapLogger.Info("upgrade finished", zap.String("version", internalApp.Version))
	},
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
	upgradeCmd.Flags().StringP("config", "c", "", "config file")
}

package notification

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"educenter.io/educenter-server/api/httpbase"
	"educenter.io/educenter-server/builder/store/database"
	"educenter.io/educenter-server/common/config"
	"educenter.io/educenter-server/notification/router"
	"educenter.io/educenter-server/notification/tmplmgr"
	"educenter.io/educenter-server/notification/varcheck"
)

var launchCmd = &cobra.Command{
	Use:     "launch",
	Short:   "Launch notification server",
	Example: serverExample(),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if len(cfg.APIToken) < 64 {
			return fmt.Errorf("API token length is less than 64, please check")
		}
		dbConfig := database.DBConfig{
			Dialect: database.Dialect(cfg.Database.Driver),
			DSN:     cfg.Database.DSN,
		}
		if err := database.InitDB(dbConfig); err != nil {
			slog.Error("failed to initialize database", slog.Any("error", err))
			return fmt.Errorf("database initialization failed: %w", err)
		}

		// catalog inconsistencies abort startup in strict mode, otherwise
		// they are logged and the affected sends are skipped at dispatch
		if err := varcheck.CheckConsistency(tmplmgr.NewTemplateManager(), cfg.Notification.StrictValidation); err != nil {
			return fmt.Errorf("notification catalog is inconsistent: %w", err)
		}

		r, err := router.NewNotifierRouter(cfg)
		if err != nil {
			return fmt.Errorf("failed to init router: %w", err)
		}
		slog.Info("http server is running", slog.Any("port", cfg.Notification.Port))
		server := httpbase.NewGracefulServer(
			httpbase.GraceServerOpt{
				Port:            cfg.Notification.Port,
				ShutdownTimeout: time.Duration(cfg.Notification.ShutdownTimeoutSeconds) * time.Second,
			},
			r,
		)
		server.Run()

		return nil
	},
}

func serverExample() string {
	return `
# for development
educenter-server notification launch
`
}

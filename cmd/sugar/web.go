package sugar

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mmweb/internal/backend"
	"mmweb/internal/common"
	"mmweb/internal/config"
	"mmweb/internal/services/web"
	"mmweb/internal/services/web/handlers"
	"mmweb/internal/session"
)

type WebCmd struct {
	cmd *cobra.Command
}

func newWebCmd(loggerInstance *zerolog.Logger) *WebCmd {
	root := &WebCmd{}
	cmd := &cobra.Command{
		Use:           "web",
		Short:         "Run the matching web front end",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			serverInstance := echo.New()
			serverInstance.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
				LogURI:    true,
				LogStatus: true,
				LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
					loggerInstance.Info().
						Str("URI", v.URI).
						Int("status", v.Status).
						Msg("request")

					return nil
				},
			}))
			serverInstance.Use(middleware.Recover())

			serverInstance.Renderer, err = common.NewTemplate("web/*.html")
			if err != nil {
				loggerInstance.Err(err).Msg("unable to load templates")
				return err
			}

			backendClient := backend.NewHTTPClient(cfg.BackendURL)
			sessionManager := session.NewManager([]byte(cfg.SessionKey), backendClient, loggerInstance)

			handle := &handlers.ServerHandle{
				Backend:  backendClient,
				Sessions: sessionManager,
				Logger:   loggerInstance,
			}

			server := web.NewServer(":"+cfg.WebPort, serverInstance, handle, sessionManager)

			go func() {
				if err := server.Run(); err != nil {
					loggerInstance.Err(err).Msg("failed to start the server")
					os.Exit(1)
				}
			}()

			<-ctx.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := serverInstance.Shutdown(ctx); err != nil {
				loggerInstance.Err(err).Msg("failed to gracefully shutdown the server")
				os.Exit(1)
			}

			return nil
		},
	}

	root.cmd = cmd
	return root
}

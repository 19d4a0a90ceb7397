// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/kisii/core/airtable"
	"github.com/relabs-tech/kisii/core/backend"
	"github.com/relabs-tech/kisii/core/configuration"
	"github.com/relabs-tech/kisii/core/gateway"
	"github.com/relabs-tech/kisii/core/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the http server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, config)
	},
}

func newGateway(config *configuration.Configuration) *gateway.Gateway {
	store := airtable.New(airtable.Configuration{
		URL:     config.APIURL,
		BaseID:  config.BaseID,
		Token:   config.APIToken,
		Timeout: config.Timeout,
	})
	return gateway.New(store, config.Tables)
}

// serve runs the server until ctx is done
func serve(ctx context.Context, config *configuration.Configuration) error {
	rlog := logger.Default()
	rlog.WithFields(config.EnvironmentCheck()).Infoln("environment check")

	accessLog := rlog.Logger.WriterLevel(logrus.DebugLevel)
	defer accessLog.Close()

	b := backend.New(&backend.Builder{
		Gateway:   newGateway(config),
		Router:    mux.NewRouter(),
		AccessLog: accessLog,
	})

	srv := &http.Server{
		Addr:              config.Address(),
		Handler:           b.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rlog.Infoln("server running on port", config.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	rlog.Infoln("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

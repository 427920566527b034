package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rohits-web03/accountabilabuddy/internal/board"
	"github.com/rohits-web03/accountabilabuddy/internal/datasource"
	"github.com/rohits-web03/accountabilabuddy/internal/importer"
	"github.com/rohits-web03/accountabilabuddy/internal/localstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const requestTimeout = 30 * time.Second

type app struct {
	board    *board.Board
	store    *localstore.Store
	importer *importer.Client
}

func openApp(ctx context.Context) (*app, error) {
	path := viper.GetString("data")
	if path == "" {
		p, err := localstore.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("locating data file: %w", err)
		}
		path = p
	}

	store, err := localstore.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}

	client := &http.Client{Timeout: requestTimeout}
	source, err := datasource.Open(datasource.Config{
		Mode:       datasource.Mode(viper.GetString("mode")),
		APIURL:     viper.GetString("api_url"),
		HTTPClient: client,
		Store:      store,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	b, err := board.New(ctx, source, store)
	if err != nil {
		store.Close()
		return nil, err
	}

	a := &app{board: b, store: store}
	if u := viper.GetString("import_url"); u != "" {
		a.importer = importer.NewClient(u, client)
	}
	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// withApp opens the board for the duration of fn.
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}

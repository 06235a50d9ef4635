// Package server initializes and runs the keyguard server: it wires the
// user store, the mail notifier and the protocol engine, listens for TCP
// connections and serves each one on its own goroutine.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/keyguard/internal/common"
	"github.com/dmitrijs2005/keyguard/internal/logging"
	"github.com/dmitrijs2005/keyguard/internal/protocol"
	"github.com/dmitrijs2005/keyguard/internal/server/auth"
	"github.com/dmitrijs2005/keyguard/internal/server/config"
	"github.com/dmitrijs2005/keyguard/internal/server/mail"
	"github.com/dmitrijs2005/keyguard/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  storage.Manager
	engine *auth.Engine
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	store, err := storage.NewManager(c.StoreDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	var notifier mail.Notifier
	if c.SMTPHost != "" {
		notifier = mail.NewSMTPNotifier(c.SMTPHost, c.SMTPPort, c.SMTPUsername, c.SMTPPassword, c.SMTPFrom)
	} else {
		notifier = mail.NewLogNotifier(logger)
	}

	engine := auth.NewEngine(store.Users(), notifier, logger)

	return &App{config: c, logger: logger, store: store, engine: engine}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// serve accepts connections until ctx is cancelled. Each connection gets
// its own worker goroutine; a failure on one connection never touches the
// others or the listener.
func (app *App) serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", app.config.ListenAddr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping server...")
		listener.Close()
	}()

	app.logger.Info(ctx, "Serving clients", "address", app.config.ListenAddr)

	var wg sync.WaitGroup
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			app.logger.Warn(ctx, "accept failed", "error", err.Error())
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			connID, _ := common.MakeRandHexString(8)
			app.logger.Debug(ctx, "client connected", "conn", connID, "remote", conn.RemoteAddr().String())
			ch := protocol.NewChannel(conn, app.config.RoundTimeout)
			defer ch.Close()
			app.engine.HandleConnection(ctx, ch)
			app.logger.Debug(ctx, "client disconnected", "conn", connID)
		}()
	}

	wg.Wait()
	return nil
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.store.RunMigrations(ctx); err != nil {
		app.logger.Error(ctx, "migrations failed", "error", err.Error())
		return
	}
	defer app.store.Close()

	if err := app.serve(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}

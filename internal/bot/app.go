// Package bot wires the relay domain to the Telegram transport.
package bot

import (
	"context"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/tunegate/tunegate/core/config"
	"github.com/tunegate/tunegate/core/logger"
	tg "github.com/tunegate/tunegate/core/telegram"
	"github.com/tunegate/tunegate/core/telegram/commands"
	"github.com/tunegate/tunegate/core/telegram/middleware"
	"github.com/tunegate/tunegate/core/telegram/router"
	"github.com/tunegate/tunegate/core/telegram/state"
	"github.com/tunegate/tunegate/internal/allowlist"
	"github.com/tunegate/tunegate/internal/broadcast"
	"github.com/tunegate/tunegate/internal/genre"
	"github.com/tunegate/tunegate/internal/submission"
)

// App owns the domain components and their Telegram wiring.
type App struct {
	cfg      *coreconfig.Config
	store    *allowlist.Store
	machine  *submission.Machine
	catalog  *genre.Catalog
	bcast    *broadcast.Dispatcher
	sessions state.Manager
	registry *tg.Registry

	// bot becomes available once the transport is up
	bot *tele.Bot
}

// New loads the allow list and assembles the application. A store that fails
// to load falls back to an admin-only table; the bot still starts so the
// operator can investigate, but the condition is logged loudly.
func New(cfg *coreconfig.Config) *App {
	a := &App{
		cfg:      cfg,
		machine:  submission.NewMachine(),
		catalog:  genre.NewCatalog(cfg.Relay.Genres),
		sessions: state.NewMemoryManager(),
		registry: tg.NewRegistry(),
	}

	a.store = allowlist.NewStore(cfg.Relay.AllowListPath, cfg.Telegram.AdminID)
	if err := a.store.Load(); err != nil {
		logger.Store.Error("allowlist.load",
			slog.String("status", "degraded"),
			slog.String("err", err.Error()),
		)
	}

	a.bcast = broadcast.NewDispatcher(a.store, a.deliver)

	a.registerCommands()
	a.registerCallbacks()
	a.registerStates()

	return a
}

// Run blocks until ctx is cancelled or the transport fails.
func (a *App) Run(ctx context.Context) error {
	mws := tg.DefaultMiddlewares(a.cfg, nil)
	mws = append(mws, tg.Middleware{
		Name: "allowlist",
		Use: middleware.AllowListMiddleware(middleware.AccessOptions{
			Members:  a.store,
			OnReject: a.handleDenied,
		}),
	})

	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID:       a.cfg.Telegram.AdminID,
		OnAdminReject: a.handleDenied,
	})
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))
	routes = append(routes, router.MessageRoutes(a.sessions, a.registry, router.MessageOptions{
		Audio: a.handleAudio,
	})...)

	return tg.RunTelegram(ctx, tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.registry,
		Middlewares: mws,
		Routes:      routes,
		OnStart: func(_ context.Context, rt tg.Runtime) error {
			a.bot = rt.Bot
			return nil
		},
	})
}

func (a *App) registerCommands() {
	a.registry.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "What this bot does",
	})
	a.registry.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "How to submit a track",
	})
	a.registry.RegisterCommand("/cancel", commands.Command{
		Handler:     a.handleCancel,
		Description: "Drop the track you are tagging",
	})
	a.registry.RegisterCommand("/about", commands.Command{
		Handler:     a.handleAbout,
		Description: "Build information",
		Hidden:      true,
	})

	a.registry.RegisterCommand("/add_user", commands.Command{
		Handler:     a.handleAddUser,
		Description: "Allow a user",
		AdminOnly:   true,
	})
	a.registry.RegisterCommand("/remove_user", commands.Command{
		Handler:     a.handleRemoveUser,
		Description: "Remove a user",
		AdminOnly:   true,
	})
	a.registry.RegisterCommand("/list_users", commands.Command{
		Handler:     a.handleListUsers,
		Description: "List allowed users",
		AdminOnly:   true,
	})
	a.registry.RegisterCommand("/broadcast", commands.Command{
		Handler:     a.handleBroadcastCmd,
		Description: "Message all allowed users",
		AdminOnly:   true,
	})
	a.registry.RegisterCommand("/report", commands.Command{
		Handler:     a.handleReport,
		Description: "Usage report",
		AdminOnly:   true,
	})
}

func (a *App) registerCallbacks() {
	_ = a.registry.RegisterCallback(cbGenre, a.handleGenrePick)
	_ = a.registry.RegisterCallback(cbConfirm, a.handleConfirm)
	_ = a.registry.RegisterCallback(cbChooseAgain, a.handleChooseAgain)
}

func (a *App) registerStates() {
	state.RegisterHandler(stateAwaitAddUser, a.awaitAddUserInput)
	state.RegisterHandler(stateAwaitRemoveUser, a.awaitRemoveUserInput)
	state.RegisterHandler(stateAwaitBroadcast, a.awaitBroadcastInput)
}

package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clone-social-client/internal/admin"
	"clone-social-client/internal/api"
	"clone-social-client/internal/chat"
	"clone-social-client/internal/config"
	"clone-social-client/internal/feed"
	"clone-social-client/internal/models"
	"clone-social-client/internal/notifications"
	"clone-social-client/internal/push"
	"clone-social-client/internal/search"
	"clone-social-client/internal/session"
	"clone-social-client/internal/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// banNoticeDelay is how long a pushed ban notice stays visible before the
// session is forcibly cleared
const banNoticeDelay = 2 * time.Second

// App bundles the client's controllers around one shared session. All
// state mutations go through these controllers.
type App struct {
	Session       *session.Manager
	Feed          *feed.Controller
	Search        *search.Controller
	Notifications *notifications.Controller
	Admin         *admin.Controller
	Chat          *chat.Controller
	Push          *push.Bridge
}

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Open the local store
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open local store")
	}
	defer st.Close()

	// Build the API client and session
	client := api.New(cfg.API.BaseURL, cfg.API.Timeout)
	sess := session.NewManager(client, st)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Restore a persisted session, if any
	switch err := sess.Restore(ctx); {
	case err == nil:
		log.Info().Str("user_id", sess.UserID()).Msg("Signed in")
	case errors.Is(err, session.ErrBanned):
		log.Warn().Msg("Stored account is banned, session cleared")
	case errors.Is(err, session.ErrNoSession):
		log.Info().Msg("No stored session, sign-in required")
	default:
		log.Error().Err(err).Msg("Session restore failed")
	}

	app := &App{
		Session:       sess,
		Feed:          feed.NewController(client, nil, cfg.Feed.PageSize),
		Search:        search.NewController(client),
		Notifications: notifications.NewController(client),
		Chat:          chat.NewController(client, nil, cfg.Chat.PollInterval),
	}
	app.Admin = admin.NewController(client, sess, nil)
	app.Push = push.NewBridge(cfg.API.WSURL, push.Handlers{
		NewPost: func(post models.Post) {
			app.Feed.Prepend(post)
		},
		ReactionUpdate: func(postID string, reactions map[string][]string) {
			app.Feed.ApplyReactions(postID, reactions)
		},
		NewComment: func(postID string, comment models.Comment) {
			app.Feed.MergeComment(postID, comment)
		},
		Notification: func(message string) {
			log.Info().Str("message", message).Msg("Notification")
		},
		Banned: func(message string) {
			if message == "" {
				message = "Your account has been banned"
			}
			log.Warn().Str("message", message).Msg("Ban notice received")
			time.AfterFunc(banNoticeDelay, func() {
				app.Push.Close()
				app.Session.ForceClear()
			})
		},
		PostDeleted: func(postID string) {
			app.Feed.Remove(postID)
		},
		NewChatMessage: func(chatID string) {
			app.Chat.HandleIncoming(ctx, chatID)
		},
		Disconnected: func(err error) {
			log.Warn().Err(err).Msg("Push channel closed")
		},
	})

	if token := sess.Token(); token != "" {
		if err := app.Push.Connect(ctx, token); err != nil {
			log.Error().Err(err).Msg("Push channel unavailable")
		}
		app.Feed.Reset()
		if err := app.Feed.Load(ctx, false); err != nil {
			log.Error().Err(err).Msg("Failed to load feed")
		}
		if _, err := app.Chat.RefreshUnread(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to load unread counter")
		}
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	app.Chat.Close()
	app.Push.Close()
	cancel()

	log.Info().Msg("Client exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

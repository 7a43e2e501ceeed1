// Package engine owns the authoritative chat state: users, channels,
// messages and the app config. Every mutation goes through one engine mutex,
// so invariants hold without the callers coordinating.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"promptclub-backend/internal/bot"
	"promptclub-backend/internal/commands"
	"promptclub-backend/internal/models"
	"promptclub-backend/internal/snowflake"
	"promptclub-backend/internal/store"
)

const (
	// MentionToken addresses the bot in free-form messages.
	MentionToken = "@PromptBot"

	botChannelName = "bots"

	messageXpReward = 5
	muteDuration    = 60 * time.Second

	defaultReplyDelayMin = 800 * time.Millisecond
	defaultReplyDelayMax = 1800 * time.Millisecond
)

var (
	ErrMuted       = errors.New("you are muted")
	ErrUnknownUser = errors.New("unknown user")
)

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// EmitFunc publishes an engine event to connected clients. Scope is either
// a channel ID fan-out or the global feed.
type EmitFunc func(messageType string, scope string, channel int64, message any) error

type Engine struct {
	sugar      *zap.SugaredLogger
	store      *store.Store
	dispatcher *commands.Dispatcher
	delegate   bot.Delegate
	emit       EmitFunc

	mutex  sync.Mutex
	config models.AppConfig

	botUser      models.User
	botChannelID int64

	// reply latency window, shrunk by tests
	replyDelayMin time.Duration
	replyDelayMax time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(sugar *zap.SugaredLogger, st *store.Store, delegate bot.Delegate, emit EmitFunc) (*Engine, error) {
	if emit == nil {
		emit = func(string, string, int64, any) error { return nil }
	}

	ctx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		sugar:         sugar,
		store:         st,
		dispatcher:    commands.NewDispatcher(delegate),
		delegate:      delegate,
		emit:          emit,
		config:        models.DefaultConfig(),
		replyDelayMin: defaultReplyDelayMin,
		replyDelayMax: defaultReplyDelayMax,
		ctx:           ctx,
		cancel:        cancel,
	}

	if err := e.seed(); err != nil {
		cancel()
		return nil, err
	}

	return e, nil
}

// Close cancels pending bot replies and waits for their goroutines. Replies
// that were already written stay in the log; scheduled ones are dropped.
func (e *Engine) Close() {
	e.cancel()
	e.wg.Wait()
}

func (e *Engine) BotUser() models.User {
	return e.botUser
}

func (e *Engine) BotChannelID() int64 {
	return e.botChannelID
}

func (e *Engine) User(id int64) (models.User, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.store.UserByID(id)
}

func (e *Engine) Users() ([]models.User, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.store.Users()
}

func (e *Engine) Channels() ([]models.Channel, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.store.Channels()
}

func (e *Engine) Messages(channelID int64) ([]models.Message, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.store.MessagesByChannel(channelID)
}

func (e *Engine) Config() models.AppConfig {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.config
}

type seedUser struct {
	name   string
	avatar string
	role   models.Role
	status models.UserStatus
	xp     int
	level  int
}

type seedChannel struct {
	name        string
	channelType models.ChannelType
	description string
}

// seed creates the bot identity, the demo roster and the default channels on
// an empty store. Seeded levels are taken as-is; they converge to the derived
// value on the first XP mutation.
func (e *Engine) seed() error {
	count, err := e.store.UserCount()
	if err != nil {
		return err
	}

	if count == 0 {
		seedUsers := []seedUser{
			{"PromptBot", "https://api.dicebear.com/7.x/bottts/svg?seed=promptbot", models.RoleBot, models.StatusOnline, 99999, 99},
			{"AdminAlice", "https://api.dicebear.com/7.x/avataaars/svg?seed=Alice", models.RoleAdmin, models.StatusOnline, 1200, 12},
			{"ModMike", "https://api.dicebear.com/7.x/avataaars/svg?seed=Mike", models.RoleMod, models.StatusBusy, 500, 5},
			{"VipVictor", "https://api.dicebear.com/7.x/avataaars/svg?seed=Victor", models.RoleVip, models.StatusOnline, 800, 8},
			{"UserDave", "https://api.dicebear.com/7.x/avataaars/svg?seed=Dave", models.RoleMember, models.StatusOffline, 50, 1},
		}

		for _, su := range seedUsers {
			id, err := snowflake.Generate()
			if err != nil {
				return err
			}

			err = e.store.InsertUser(models.User{
				ID:       id,
				Name:     su.name,
				Avatar:   su.avatar,
				Role:     su.role,
				Status:   su.status,
				Xp:       su.xp,
				Level:    su.level,
				JoinedAt: time.Now(),
			})
			if err != nil {
				return err
			}
		}

		seedChannels := []seedChannel{
			{"geral", models.ChannelPublic, "General chatter"},
			{"marketing", models.ChannelPublic, "Growth hacks"},
			{"ajuda", models.ChannelPublic, "Support & Help"},
			{"off-topic", models.ChannelPublic, "Memes & Random"},
			{"divulgação", models.ChannelPublic, "Promote your stuff"},
			{botChannelName, models.ChannelBotOnly, "Bot commands only"},
		}

		for _, sc := range seedChannels {
			id, err := snowflake.Generate()
			if err != nil {
				return err
			}

			err = e.store.InsertChannel(models.Channel{
				ID:          id,
				Name:        sc.name,
				Type:        sc.channelType,
				Description: sc.description,
			})
			if err != nil {
				return err
			}
		}
	}

	return e.resolveBotIdentity()
}

// resolveBotIdentity pins the synthetic BOT user and the bot-only channel
// for the process lifetime.
func (e *Engine) resolveBotIdentity() error {
	users, err := e.store.Users()
	if err != nil {
		return err
	}
	for _, user := range users {
		if user.Role == models.RoleBot {
			e.botUser = user
			break
		}
	}
	if e.botUser.ID == 0 {
		return fmt.Errorf("store has no bot user")
	}

	channels, err := e.store.Channels()
	if err != nil {
		return err
	}
	for _, channel := range channels {
		if channel.Type == models.ChannelBotOnly {
			e.botChannelID = channel.ID
			break
		}
	}
	if e.botChannelID == 0 {
		return fmt.Errorf("store has no bot-only channel")
	}

	return nil
}

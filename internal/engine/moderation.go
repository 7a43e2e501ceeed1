package engine

import (
	"regexp"
	"strings"
	"time"

	"promptclub-backend/internal/hub"
	"promptclub-backend/internal/models"
	"promptclub-backend/internal/snowflake"
)

// UserUpdate is a partial user mutation; nil fields are left untouched.
type UserUpdate struct {
	Name      *string            `json:"name"`
	Avatar    *string            `json:"avatar"`
	Role      *models.Role       `json:"role"`
	Status    *models.UserStatus `json:"status"`
	IsMuted   *bool              `json:"isMuted"`
	MuteUntil *int64             `json:"muteUntil"`
}

// ConfigUpdate is a partial AppConfig mutation; nil fields are left untouched.
type ConfigUpdate struct {
	AllowGifs        *bool `json:"allowGifs"`
	SlowMode         *bool `json:"slowMode"`
	SlowModeDuration *int  `json:"slowModeDuration"`
	MaintenanceMode  *bool `json:"maintenanceMode"`
}

// Login resumes the non-bot user with the exact display name, or creates a
// new one. A name containing "admin" (any case) gets the ADMIN role; the demo
// ships with this backdoor on purpose.
func (e *Engine) Login(name string) (models.User, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	existing, err := e.store.UserByName(name)
	if err == nil {
		return existing, nil
	}
	if !isNotFound(err) {
		return models.User{}, err
	}

	role := models.RoleMember
	if strings.Contains(strings.ToLower(name), "admin") {
		role = models.RoleAdmin
	}

	id, err := snowflake.Generate()
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:       id,
		Name:     name,
		Avatar:   "https://api.dicebear.com/7.x/avataaars/svg?seed=" + name,
		Role:     role,
		Status:   models.StatusOnline,
		Xp:       0,
		Level:    1,
		JoinedAt: time.Now(),
	}

	if err := e.store.InsertUser(user); err != nil {
		return models.User{}, err
	}

	e.emitGlobal(hub.UserUpdated, user)
	return user, nil
}

// UpdateUser merges the given fields into the user. Callers read users back
// from the engine, so there is no stale-session window to refresh.
func (e *Engine) UpdateUser(id int64, update UserUpdate) (models.User, error) {
	e.mutex.Lock()

	user, err := e.store.UserByID(id)
	if err != nil {
		e.mutex.Unlock()
		return models.User{}, err
	}

	if user.Role == models.RoleBot {
		// the synthetic bot identity only ever changes status
		if update.Status != nil {
			user.Status = *update.Status
		}
	} else {
		if update.Name != nil {
			user.Name = *update.Name
		}
		if update.Avatar != nil {
			user.Avatar = *update.Avatar
		}
		if update.Role != nil {
			user.Role = *update.Role
		}
		if update.Status != nil {
			user.Status = *update.Status
		}
		if update.IsMuted != nil {
			user.IsMuted = *update.IsMuted
		}
		if update.MuteUntil != nil {
			user.MuteUntil = *update.MuteUntil
		}
	}

	if err := e.store.UpdateUser(user); err != nil {
		e.mutex.Unlock()
		return models.User{}, err
	}
	e.mutex.Unlock()

	e.emitGlobal(hub.UserUpdated, user)
	return user, nil
}

// Mute suspends a user's sends for the fixed 60 second window.
func (e *Engine) Mute(id int64) (models.User, error) {
	muted := true
	until := time.Now().Add(muteDuration).UnixMilli()
	return e.UpdateUser(id, UserUpdate{IsMuted: &muted, MuteUntil: &until})
}

func (e *Engine) Unmute(id int64) (models.User, error) {
	muted := false
	var until int64 = 0
	return e.UpdateUser(id, UserUpdate{IsMuted: &muted, MuteUntil: &until})
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// CreateChannel appends a public channel. The name is slugged (lowercase,
// whitespace to hyphens); duplicate names are legal.
func (e *Engine) CreateChannel(name string) (models.Channel, error) {
	id, err := snowflake.Generate()
	if err != nil {
		return models.Channel{}, err
	}

	channel := models.Channel{
		ID:   id,
		Name: whitespaceRuns.ReplaceAllString(strings.ToLower(name), "-"),
		Type: models.ChannelPublic,
	}

	e.mutex.Lock()
	err = e.store.InsertChannel(channel)
	e.mutex.Unlock()
	if err != nil {
		return models.Channel{}, err
	}

	e.emitGlobal(hub.ChannelCreated, channel)
	return channel, nil
}

// UpdateConfig merges the given fields into the app config.
func (e *Engine) UpdateConfig(update ConfigUpdate) models.AppConfig {
	e.mutex.Lock()

	if update.AllowGifs != nil {
		e.config.AllowGifs = *update.AllowGifs
	}
	if update.SlowMode != nil {
		e.config.SlowMode = *update.SlowMode
	}
	if update.SlowModeDuration != nil {
		e.config.SlowModeDuration = *update.SlowModeDuration
	}
	if update.MaintenanceMode != nil {
		e.config.MaintenanceMode = *update.MaintenanceMode
	}

	config := e.config
	e.mutex.Unlock()

	e.emitGlobal(hub.ConfigUpdated, config)
	return config
}

func (e *Engine) emitGlobal(messageType string, message any) {
	if err := e.emit(messageType, hub.ScopeGlobal, 0, message); err != nil {
		e.sugar.Error(err)
	}
}

func (e *Engine) emitChannel(messageType string, channelID int64, message any) {
	if err := e.emit(messageType, hub.ScopeChannel, channelID, message); err != nil {
		e.sugar.Error(err)
	}
}

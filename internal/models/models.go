package models

import "time"

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMod    Role = "MOD"
	RoleVip    Role = "VIP"
	RoleMember Role = "MEMBER"
	RoleBot    Role = "BOT"
)

type UserStatus string

const (
	StatusOnline  UserStatus = "ONLINE"
	StatusAway    UserStatus = "AWAY"
	StatusBusy    UserStatus = "BUSY"
	StatusOffline UserStatus = "OFFLINE"
)

type ChannelType string

const (
	ChannelPublic  ChannelType = "public"
	ChannelPrivate ChannelType = "private"
	ChannelBotOnly ChannelType = "bot-only"
)

type MessageType string

const (
	MessageText            MessageType = "text"
	MessageImage           MessageType = "image"
	MessageSystem          MessageType = "system"
	MessageCommandResponse MessageType = "command_response"
)

type User struct {
	ID        int64      `json:"id,string"`
	Name      string     `json:"name"`
	Avatar    string     `json:"avatar"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	Xp        int        `json:"xp"`
	Level     int        `json:"level"`
	JoinedAt  time.Time  `json:"joinedAt"`
	IsMuted   bool       `json:"isMuted"`
	MuteUntil int64      `json:"muteUntil"` // unix milliseconds, 0 when not muted
}

type Channel struct {
	ID          int64       `json:"id,string"`
	Name        string      `json:"name"`
	Type        ChannelType `json:"type"`
	Description string      `json:"description,omitempty"`
}

type Message struct {
	ID        int64       `json:"id,string"`
	ChannelID int64       `json:"channelID,string"`
	UserID    int64       `json:"userID,string"`
	Content   string      `json:"content"`
	Timestamp int64       `json:"timestamp"` // unix milliseconds
	Type      MessageType `json:"type"`
	IsDeleted bool        `json:"isDeleted"`
}

type AppConfig struct {
	AllowGifs        bool `json:"allowGifs"`
	SlowMode         bool `json:"slowMode"`
	SlowModeDuration int  `json:"slowModeDuration"` // seconds
	MaintenanceMode  bool `json:"maintenanceMode"`
}

// DefaultConfig is the state a fresh process boots with.
func DefaultConfig() AppConfig {
	return AppConfig{
		AllowGifs:        true,
		SlowMode:         false,
		SlowModeDuration: 3,
		MaintenanceMode:  false,
	}
}

type ConfigFile struct {
	Address           string
	Port              string
	TlsCert           string
	TlsKey            string
	Cors              bool
	PrintHttpRequests bool
	LogToFile         bool
	LogLevel          string
	JwtSecret         string
	SnowflakeWorkerID int64
	SelfContained     bool
	DbPath            string
	BotProvider       string
	GeminiApiKey      string
	OpenAiApiKey      string
}

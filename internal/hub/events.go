package hub

// Event types pushed to connected clients.
const (
	MessageCreated = "MessageCreated"
	MessageDeleted = "MessageDeleted"

	ChannelCreated = "ChannelCreated"

	UserUpdated   = "UserUpdated"
	ConfigUpdated = "ConfigUpdated"
)

// Fan-out scopes. Channel events reach subscribers of one chat channel;
// global events (user roster, config, channel list) reach every session.
const (
	ScopeChannel = "channel"
	ScopeGlobal  = "global"
)

package constants

const (
	CHANNEL_SIZE               = 100 // buffered channel size for broker/gateway loops
	CHATLIST_FLUSH_INTERVAL_MS = 200 // default collapse window for chat-list refreshes
	REFRESH_TOKEN_EXPIRY_HOURS = 168 // refresh token lifetime, 168h = 7 days
	DEFAULT_GROUP_NAME         = "New Group"
)

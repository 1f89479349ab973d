package model

import (
	"encoding/json"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Unlimited is the sentinel the backend uses for "no limit" on numeric
// fields (stock, duration, max claims). It must survive save/reload
// untouched and render as ∞, never as a negative number.
const Unlimited int64 = -1

// SessionUser is the operator logged into the console.
type SessionUser struct {
	ID          snowflake.ID `json:"id"`
	Username    string       `json:"username"`
	DisplayName string       `json:"display_name"`
	Role        string       `json:"role"` // "superadmin" or "server_owner"
}

func (u SessionUser) IsSuperadmin() bool {
	return u.Role == "superadmin"
}

func (u SessionUser) Label() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Server is a guild the operator can manage.
type Server struct {
	ID          snowflake.ID `json:"id"`
	Name        string       `json:"name"`
	MemberCount int          `json:"member_count"`
	Tier        string       `json:"tier"` // "free" or "premium"
}

func (s Server) IsPremium() bool {
	return s.Tier == "premium"
}

// Member is a guild member as listed on the users tab.
type Member struct {
	ID          snowflake.ID   `json:"id"`
	Username    string         `json:"username"`
	DisplayName string         `json:"display_name"`
	Balance     int64          `json:"balance"`
	RoleIDs     []snowflake.ID `json:"role_ids"`
}

func (m Member) Label() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Username
}

// Channel is a guild channel from the reference cache.
type Channel struct {
	ID   snowflake.ID `json:"id"`
	Name string       `json:"name"`
	Type string       `json:"type"` // "text", "voice", "category", ...
}

// Role is a guild role from the reference cache.
type Role struct {
	ID    snowflake.ID `json:"id"`
	Name  string       `json:"name"`
	Color int          `json:"color"`
}

// ShopItem is a purchasable item in the guild shop.
type ShopItem struct {
	ItemID   int64        `json:"item_id"`
	Name     string       `json:"name"`
	Price    int64        `json:"price"`
	Stock    int64        `json:"stock"` // -1 = unlimited
	Category string       `json:"category"`
	Emoji    string       `json:"emoji"`
	RoleID   snowflake.ID `json:"role_id"` // role granted on purchase, 0 = none
}

// Task is a claimable task that pays out currency.
type Task struct {
	TaskID         int64        `json:"task_id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Reward         int64        `json:"reward"`
	DurationHours  int64        `json:"duration_hours"` // -1 = unlimited
	MaxClaims      int64        `json:"max_claims"`     // -1 = unlimited
	Category       string       `json:"category"`
	RequiredRoleID snowflake.ID `json:"required_role_id"`
	IsGlobal       bool         `json:"is_global"` // superadmin only
}

// Announcement is a posted or pinned announcement message.
type Announcement struct {
	AnnouncementID int64        `json:"announcement_id"`
	Title          string       `json:"title"`
	Content        string       `json:"content"`
	ChannelID      snowflake.ID `json:"channel_id"`
	IsPinned       bool         `json:"is_pinned"`
}

// Embed is a stored rich message template. Sending it to a channel is a
// separate action from persisting it.
type Embed struct {
	EmbedID      int64  `json:"embed_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Color        string `json:"color"` // hex like "#5865F2"
	Footer       string `json:"footer"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// ChannelSchedule is a timed lock/unlock rule for a channel. Premium only.
type ChannelSchedule struct {
	ScheduleID int64        `json:"schedule_id"`
	ChannelID  snowflake.ID `json:"channel_id"`
	UnlockTime string       `json:"unlock_time"` // "HH:MM"
	LockTime   string       `json:"lock_time"`   // "HH:MM"
	Timezone   string       `json:"timezone"`
	ActiveDays []int        `json:"active_days"` // 0 = Sunday .. 6 = Saturday
	IsEnabled  bool         `json:"is_enabled"`
}

// Transaction is one currency ledger entry.
type Transaction struct {
	ID        int64        `json:"id"`
	UserID    snowflake.ID `json:"user_id"`
	Amount    int64        `json:"amount"`
	Reason    string       `json:"reason"`
	Timestamp time.Time    `json:"timestamp"`
}

// GuildConfig is the per-guild bot configuration. The canonical key for
// the welcome channel is welcome_channel_id; some deployments still send
// the legacy welcome_channel key, which the decoder accepts.
type GuildConfig struct {
	Prefix           string       `json:"prefix"`
	CurrencyName     string       `json:"currency_name"`
	CurrencySymbol   string       `json:"currency_symbol"`
	WelcomeChannelID snowflake.ID `json:"welcome_channel_id"`
	LogChannelID     snowflake.ID `json:"log_channel_id"`
	DailyReward      int64        `json:"daily_reward"`
}

func (c *GuildConfig) UnmarshalJSON(data []byte) error {
	type alias GuildConfig
	aux := struct {
		*alias
		LegacyWelcome snowflake.ID `json:"welcome_channel"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.WelcomeChannelID == 0 && aux.LegacyWelcome != 0 {
		c.WelcomeChannelID = aux.LegacyWelcome
	}
	return nil
}

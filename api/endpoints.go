package api

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"

	"github.com/harunoki/guildctl/model"
)

// --- session ---

func (c *Client) Me(ctx context.Context) (*model.SessionUser, error) {
	var u model.SessionUser
	if err := c.doJSON(ctx, "GET", "/api/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

type loginDTO struct {
	User model.SessionUser `json:"user"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*model.SessionUser, error) {
	body := map[string]string{"username": username, "password": password}
	var dto loginDTO
	if err := c.doJSON(ctx, "POST", "/api/auth/login", nil, body, &dto); err != nil {
		return nil, err
	}
	return &dto.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, "POST", "/api/auth/logout", nil, nil, nil)
}

// --- discord oauth ---

func (c *Client) DiscordAuthURL(ctx context.Context) (string, error) {
	var dto struct {
		URL string `json:"url"`
	}
	if err := c.doJSON(ctx, "GET", "/api/auth/discord/url", nil, nil, &dto); err != nil {
		return "", err
	}
	return dto.URL, nil
}

func (c *Client) DiscordCallback(ctx context.Context, code string) (*model.SessionUser, error) {
	var dto loginDTO
	if err := c.doJSON(ctx, "POST", "/api/auth/discord/callback", nil, map[string]string{"code": code}, &dto); err != nil {
		return nil, err
	}
	return &dto.User, nil
}

func (c *Client) SyncGuilds(ctx context.Context) error {
	return c.doJSON(ctx, "POST", "/api/auth/discord/sync-guilds", nil, nil, nil)
}

// --- servers & reference data ---

func (c *Client) Servers(ctx context.Context) ([]model.Server, error) {
	var dto struct {
		Servers []model.Server `json:"servers"`
	}
	if err := c.doJSON(ctx, "GET", "/api/servers", nil, nil, &dto); err != nil {
		return nil, err
	}
	return dto.Servers, nil
}

func (c *Client) Members(ctx context.Context, guild snowflake.ID, page, limit int) ([]model.Member, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var dto struct {
		Users []model.Member `json:"users"`
		Total int            `json:"total"`
	}
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/%s/users", guild), q, nil, &dto); err != nil {
		return nil, 0, err
	}
	return dto.Users, dto.Total, nil
}

func (c *Client) Channels(ctx context.Context, guild snowflake.ID) ([]model.Channel, error) {
	var dto struct {
		Channels []model.Channel `json:"channels"`
	}
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/%s/channels", guild), nil, nil, &dto); err != nil {
		return nil, err
	}
	return dto.Channels, nil
}

func (c *Client) Roles(ctx context.Context, guild snowflake.ID) ([]model.Role, error) {
	var dto struct {
		Roles []model.Role `json:"roles"`
	}
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/%s/roles", guild), nil, nil, &dto); err != nil {
		return nil, err
	}
	return dto.Roles, nil
}

// --- guild config ---

func (c *Client) GuildConfig(ctx context.Context, guild snowflake.ID) (*model.GuildConfig, error) {
	var cfg model.GuildConfig
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/%s/config", guild), nil, nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) UpdateGuildConfig(ctx context.Context, guild snowflake.ID, cfg model.GuildConfig) error {
	return c.doJSON(ctx, "PUT", fmt.Sprintf("/api/%s/config", guild), nil, cfg, nil)
}

// --- shop ---

func (c *Client) ShopItems(ctx context.Context, guild snowflake.ID) ([]model.ShopItem, error) {
	var dto struct {
		Items []model.ShopItem `json:"items"`
	}
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/%s/shop", guild), nil, nil, &dto); err != nil {
		return nil, err
	}
	return dto.Items, nil
}

func (c *Client) CreateShopItem(ctx context.Context, guild snowflake.ID, item model.ShopItem) error {
	return c.doJSON(ctx, "POST", fmt.Sprintf("/api/%s/shop", guild), nil, item, nil)
}

func (c *Client) UpdateShopItem(ctx context.Context, guild snowflake.ID, item model.ShopItem) error {
	return c.doJSON(ctx, "PUT", fmt.Sprintf("/api/%s/shop/%d", guild, item.ItemID), nil, item, nil)
}

func (c *Client) DeleteShopItem(ctx context.Context, guild snowflake.ID, itemID int64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/api/%s/shop/%d", guild, itemID), nil, nil, nil)
}

// --- tasks ---

func (c *Client) Tasks(ctx context.Context, guild snowflake.ID) ([]model.Task, error) {
	var dto struct {
		Tasks []model.Task `json:"tasks"`
	}
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/%s/tasks", guild), nil, nil, &dto); err != nil {
		return nil, err
	}
	return dto.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, guild snowflake.ID, task model.Task) error {
	return c.doJSON(ctx, "POST", fmt.Sprintf("/api/%s/tasks", guild), nil, task, nil)
}

func (c *Client) UpdateTask(ctx context.Context, guild snowflake.ID, task model.Task) error {
	return c.doJSON(ctx, "PUT", fmt.Sprintf("/api/%s/tasks/%d", guild, task.TaskID), nil, task, nil)
}

func (c *Client) DeleteTask(ctx context.Context, guild snowflake.ID, taskID int64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/api/%s/tasks/%d", guild, taskID), nil, nil, nil)
}

// --- announcements ---

func (c *Client) Announcements(ctx context.Context, guild snowflake.ID) ([]model.Announcement, error) {
	var dto struct {
		Announcements []model.Announcement `json:"announcements"`
	}
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/%s/announcements", guild), nil, nil, &dto); err != nil {
		return nil, err
	}
	return dto.Announcements, nil
}

func (c *Client) CreateAnnouncement(ctx context.Context, guild snowflake.ID, a model.Announcement) error {
	return c.doJSON(ctx, "POST", fmt.Sprintf("/api/%s/announcements", guild), nil, a, nil)
}

func (c *Client) UpdateAnnouncement(ctx context.Context, guild snowflake.ID, a model.Announcement) error {
	return c.doJSON(ctx, "PUT", fmt.Sprintf("/api/%s/announcements/%d", guild, a.AnnouncementID), nil, a, nil)
}

func (c *Client) DeleteAnnouncement(ctx context.Context, guild snowflake.ID, id int64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/api/%s/announcements/%d", guild, id), nil, nil, nil)
}

// --- embeds ---

func (c *Client) Embeds(ctx context.Context, guild snowflake.ID) ([]model.Embed, error) {
	var dto struct {
		Embeds []model.Embed `json:"embeds"`
	}
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/%s/embeds", guild), nil, nil, &dto); err != nil {
		return nil, err
	}
	return dto.Embeds, nil
}

func (c *Client) CreateEmbed(ctx context.Context, guild snowflake.ID, e model.Embed) error {
	return c.doJSON(ctx, "POST", fmt.Sprintf("/api/%s/embeds", guild), nil, e, nil)
}

func (c *Client) UpdateEmbed(ctx context.Context, guild snowflake.ID, e model.Embed) error {
	return c.doJSON(ctx, "PUT", fmt.Sprintf("/api/%s/embeds/%d", guild, e.EmbedID), nil, e, nil)
}

func (c *Client) DeleteEmbed(ctx context.Context, guild snowflake.ID, id int64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/api/%s/embeds/%d", guild, id), nil, nil, nil)
}

// SendEmbed posts a stored embed to a channel. Distinct from saving it.
func (c *Client) SendEmbed(ctx context.Context, guild snowflake.ID, id int64, channel snowflake.ID) error {
	body := map[string]string{"channel_id": channel.String()}
	return c.doJSON(ctx, "POST", fmt.Sprintf("/api/%s/embeds/%d/send", guild, id), nil, body, nil)
}

// --- channel-lock schedules ---

func (c *Client) Schedules(ctx context.Context, guild snowflake.ID) ([]model.ChannelSchedule, error) {
	var dto struct {
		Schedules []model.ChannelSchedule `json:"schedules"`
	}
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/%s/channel-schedules", guild), nil, nil, &dto); err != nil {
		return nil, err
	}
	return dto.Schedules, nil
}

func (c *Client) CreateSchedule(ctx context.Context, guild snowflake.ID, s model.ChannelSchedule) error {
	return c.doJSON(ctx, "POST", fmt.Sprintf("/api/%s/channel-schedules", guild), nil, s, nil)
}

func (c *Client) UpdateSchedule(ctx context.Context, guild snowflake.ID, s model.ChannelSchedule) error {
	return c.doJSON(ctx, "PUT", fmt.Sprintf("/api/%s/channel-schedules/%d", guild, s.ScheduleID), nil, s, nil)
}

func (c *Client) DeleteSchedule(ctx context.Context, guild snowflake.ID, id int64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/api/%s/channel-schedules/%d", guild, id), nil, nil, nil)
}

func (c *Client) ToggleSchedule(ctx context.Context, guild snowflake.ID, id int64) error {
	return c.doJSON(ctx, "POST", fmt.Sprintf("/api/%s/channel-schedules/%d/toggle", guild, id), nil, nil, nil)
}

func (c *Client) LockScheduleChannel(ctx context.Context, guild snowflake.ID, id int64) error {
	return c.doJSON(ctx, "POST", fmt.Sprintf("/api/%s/channel-schedules/%d/lock", guild, id), nil, nil, nil)
}

func (c *Client) UnlockScheduleChannel(ctx context.Context, guild snowflake.ID, id int64) error {
	return c.doJSON(ctx, "POST", fmt.Sprintf("/api/%s/channel-schedules/%d/unlock", guild, id), nil, nil, nil)
}

// --- transactions & balances ---

func (c *Client) Transactions(ctx context.Context, guild snowflake.ID) ([]model.Transaction, error) {
	var dto struct {
		Transactions []model.Transaction `json:"transactions"`
	}
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/%s/transactions", guild), nil, nil, &dto); err != nil {
		return nil, err
	}
	return dto.Transactions, nil
}

// AdjustBalance applies a signed currency delta to a member.
func (c *Client) AdjustBalance(ctx context.Context, guild, user snowflake.ID, amount int64, reason string) error {
	body := map[string]any{"amount": amount, "reason": reason}
	return c.doJSON(ctx, "POST", fmt.Sprintf("/api/%s/users/%s/balance", guild, user), nil, body, nil)
}

func (c *Client) SetMemberRoles(ctx context.Context, guild, user snowflake.ID, roles []snowflake.ID) error {
	ids := make([]string, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.String())
	}
	body := map[string]any{"role_ids": ids}
	return c.doJSON(ctx, "PUT", fmt.Sprintf("/api/%s/users/%s/roles", guild, user), nil, body, nil)
}

// --- moderation ---

// Moderate runs one of the kick/ban/timeout actions. durationMinutes is
// only meaningful for timeout and ignored by the backend otherwise.
func (c *Client) Moderate(ctx context.Context, guild snowflake.ID, action string, user snowflake.ID, reason string, durationMinutes int64) error {
	body := map[string]any{
		"user_id": user.String(),
		"reason":  reason,
	}
	if durationMinutes > 0 {
		body["duration_minutes"] = durationMinutes
	}
	return c.doJSON(ctx, "POST", fmt.Sprintf("/api/%s/moderation/%s", guild, action), nil, body, nil)
}

// --- activity log ---

// LogAction records an operator action. Best effort: failures are logged
// and swallowed, never surfaced to the operator.
func (c *Client) LogAction(ctx context.Context, guild snowflake.ID, action, detail string) {
	body := map[string]string{
		"action_id": uuid.NewString(),
		"guild_id":  guild.String(),
		"action":    action,
		"detail":    detail,
	}
	if err := c.doJSON(ctx, "POST", "/api/admin/log_cms_action", nil, body, nil); err != nil {
		log.Printf("action log failed: %v", err)
	}
}

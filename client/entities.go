package main

import (
	"context"
	"strconv"

	"github.com/disgoorg/snowflake/v2"

	"github.com/harunoki/guildctl/api"
	"github.com/harunoki/guildctl/model"
)

// One canonical descriptor per entity type, looked up through this
// registry. Adding an entity means adding a descriptor, not another
// copy of the form flow.
var entityByTab = map[tabID]*entityDesc{}

func init() {
	for _, d := range []*entityDesc{shopDesc, taskDesc, announcementDesc, embedDesc, scheduleDesc} {
		entityByTab[d.tab] = d
	}
}

var shopDesc = &entityDesc{
	name: "shop item",
	tab:  tabShop,
	fields: []fieldDef{
		{key: "name", label: "Name", required: true},
		{key: "price", label: "Price", kind: fieldNumber, required: true},
		{key: "stock", label: "Stock", kind: fieldNumber, allowUnlimited: true, placeholder: "-1 for unlimited"},
		{key: "category", label: "Category", required: true, placeholder: "general"},
		{key: "emoji", label: "Emoji"},
		{key: "role_id", label: "Granted role", kind: fieldID, placeholder: "role id, optional"},
	},
	fill: func(m *appModel, id int64) (map[string]string, bool) {
		for _, it := range m.lists.shop {
			if it.ItemID == id {
				return map[string]string{
					"name":     it.Name,
					"price":    strconv.FormatInt(it.Price, 10),
					"stock":    strconv.FormatInt(it.Stock, 10),
					"category": it.Category,
					"emoji":    it.Emoji,
					"role_id":  optionalID(it.RoleID),
				}, true
			}
		}
		return nil, false
	},
	save: func(c *api.Client, guild snowflake.ID, id int64, v map[string]string) error {
		item := model.ShopItem{
			ItemID:   id,
			Name:     v["name"],
			Price:    numField(v, "price"),
			Stock:    numField(v, "stock"),
			Category: v["category"],
			Emoji:    v["emoji"],
			RoleID:   idField(v, "role_id"),
		}
		if id == 0 {
			return c.CreateShopItem(context.Background(), guild, item)
		}
		return c.UpdateShopItem(context.Background(), guild, item)
	},
	remove: func(c *api.Client, guild snowflake.ID, id int64) error {
		return c.DeleteShopItem(context.Background(), guild, id)
	},
}

var taskDesc = &entityDesc{
	name: "task",
	tab:  tabTasks,
	fields: []fieldDef{
		{key: "name", label: "Name", required: true},
		{key: "description", label: "Description"},
		{key: "reward", label: "Reward", kind: fieldNumber, required: true},
		{key: "duration_hours", label: "Duration (h)", kind: fieldNumber, allowUnlimited: true, placeholder: "-1 for unlimited"},
		{key: "max_claims", label: "Max claims", kind: fieldNumber, allowUnlimited: true, placeholder: "-1 for unlimited"},
		{key: "category", label: "Category"},
		{key: "required_role_id", label: "Required role", kind: fieldID, placeholder: "role id, optional"},
		{key: "is_global", label: "Global", kind: fieldBool, placeholder: "yes/no, superadmin only"},
	},
	fill: func(m *appModel, id int64) (map[string]string, bool) {
		for _, t := range m.lists.tasks {
			if t.TaskID == id {
				return map[string]string{
					"name":             t.Name,
					"description":      t.Description,
					"reward":           strconv.FormatInt(t.Reward, 10),
					"duration_hours":   strconv.FormatInt(t.DurationHours, 10),
					"max_claims":       strconv.FormatInt(t.MaxClaims, 10),
					"category":         t.Category,
					"required_role_id": optionalID(t.RequiredRoleID),
					"is_global":        boolWord(t.IsGlobal),
				}, true
			}
		}
		return nil, false
	},
	save: func(c *api.Client, guild snowflake.ID, id int64, v map[string]string) error {
		task := model.Task{
			TaskID:         id,
			Name:           v["name"],
			Description:    v["description"],
			Reward:         numField(v, "reward"),
			DurationHours:  numField(v, "duration_hours"),
			MaxClaims:      numField(v, "max_claims"),
			Category:       v["category"],
			RequiredRoleID: idField(v, "required_role_id"),
			IsGlobal:       boolField(v, "is_global"),
		}
		if id == 0 {
			return c.CreateTask(context.Background(), guild, task)
		}
		return c.UpdateTask(context.Background(), guild, task)
	},
	remove: func(c *api.Client, guild snowflake.ID, id int64) error {
		return c.DeleteTask(context.Background(), guild, id)
	},
}

var announcementDesc = &entityDesc{
	name: "announcement",
	tab:  tabAnnouncements,
	fields: []fieldDef{
		{key: "title", label: "Title", required: true},
		{key: "content", label: "Content", required: true},
		{key: "channel_id", label: "Channel", kind: fieldID, required: true},
		{key: "is_pinned", label: "Pinned", kind: fieldBool, placeholder: "yes/no"},
	},
	fill: func(m *appModel, id int64) (map[string]string, bool) {
		for _, a := range m.lists.announcements {
			if a.AnnouncementID == id {
				return map[string]string{
					"title":      a.Title,
					"content":    a.Content,
					"channel_id": a.ChannelID.String(),
					"is_pinned":  boolWord(a.IsPinned),
				}, true
			}
		}
		return nil, false
	},
	save: func(c *api.Client, guild snowflake.ID, id int64, v map[string]string) error {
		a := model.Announcement{
			AnnouncementID: id,
			Title:          v["title"],
			Content:        v["content"],
			ChannelID:      idField(v, "channel_id"),
			IsPinned:       boolField(v, "is_pinned"),
		}
		if id == 0 {
			return c.CreateAnnouncement(context.Background(), guild, a)
		}
		return c.UpdateAnnouncement(context.Background(), guild, a)
	},
	remove: func(c *api.Client, guild snowflake.ID, id int64) error {
		return c.DeleteAnnouncement(context.Background(), guild, id)
	},
}

var embedDesc = &entityDesc{
	name: "embed",
	tab:  tabEmbeds,
	fields: []fieldDef{
		{key: "title", label: "Title", required: true},
		{key: "description", label: "Description", required: true},
		{key: "color", label: "Color", placeholder: "#5865F2"},
		{key: "footer", label: "Footer"},
		{key: "image_url", label: "Image URL"},
		{key: "thumbnail_url", label: "Thumbnail URL"},
	},
	fill: func(m *appModel, id int64) (map[string]string, bool) {
		for _, e := range m.lists.embeds {
			if e.EmbedID == id {
				return map[string]string{
					"title":         e.Title,
					"description":   e.Description,
					"color":         e.Color,
					"footer":        e.Footer,
					"image_url":     e.ImageURL,
					"thumbnail_url": e.ThumbnailURL,
				}, true
			}
		}
		return nil, false
	},
	save: func(c *api.Client, guild snowflake.ID, id int64, v map[string]string) error {
		e := model.Embed{
			EmbedID:      id,
			Title:        v["title"],
			Description:  v["description"],
			Color:        v["color"],
			Footer:       v["footer"],
			ImageURL:     v["image_url"],
			ThumbnailURL: v["thumbnail_url"],
		}
		if id == 0 {
			return c.CreateEmbed(context.Background(), guild, e)
		}
		return c.UpdateEmbed(context.Background(), guild, e)
	},
	remove: func(c *api.Client, guild snowflake.ID, id int64) error {
		return c.DeleteEmbed(context.Background(), guild, id)
	},
}

var scheduleDesc = &entityDesc{
	name:    "channel schedule",
	tab:     tabSchedules,
	premium: true,
	fields: []fieldDef{
		{key: "channel_id", label: "Channel", kind: fieldID, required: true},
		{key: "unlock_time", label: "Unlock at", required: true, placeholder: "08:00"},
		{key: "lock_time", label: "Lock at", required: true, placeholder: "22:00"},
		{key: "timezone", label: "Timezone", required: true, placeholder: "Europe/Berlin"},
		{key: "active_days", label: "Active days", kind: fieldDays, placeholder: "1,2,3,4,5"},
		{key: "is_enabled", label: "Enabled", kind: fieldBool, placeholder: "yes/no"},
	},
	fill: func(m *appModel, id int64) (map[string]string, bool) {
		for _, s := range m.lists.schedules {
			if s.ScheduleID == id {
				return map[string]string{
					"channel_id":  s.ChannelID.String(),
					"unlock_time": s.UnlockTime,
					"lock_time":   s.LockTime,
					"timezone":    s.Timezone,
					"active_days": formatDays(s.ActiveDays),
					"is_enabled":  boolWord(s.IsEnabled),
				}, true
			}
		}
		return nil, false
	},
	save: func(c *api.Client, guild snowflake.ID, id int64, v map[string]string) error {
		s := model.ChannelSchedule{
			ScheduleID: id,
			ChannelID:  idField(v, "channel_id"),
			UnlockTime: v["unlock_time"],
			LockTime:   v["lock_time"],
			Timezone:   v["timezone"],
			ActiveDays: daysField(v, "active_days"),
			IsEnabled:  boolField(v, "is_enabled"),
		}
		if id == 0 {
			return c.CreateSchedule(context.Background(), guild, s)
		}
		return c.UpdateSchedule(context.Background(), guild, s)
	},
	remove: func(c *api.Client, guild snowflake.ID, id int64) error {
		return c.DeleteSchedule(context.Background(), guild, id)
	},
}

// Action descriptors reuse the form machinery for flows that are not
// list CRUD: balance deltas, role assignment, moderation, config edits
// and sending a stored embed. None of them are deletable.

var balanceDesc = &entityDesc{
	name:     "balance adjustment",
	tab:      tabUsers,
	doneText: "balance applied",
	fields: []fieldDef{
		{key: "user_id", label: "User", kind: fieldID, required: true},
		{key: "amount", label: "Amount", kind: fieldNumber, required: true, allowNegative: true, placeholder: "signed delta, e.g. -50"},
		{key: "reason", label: "Reason", required: true},
	},
	save: func(c *api.Client, guild snowflake.ID, _ int64, v map[string]string) error {
		return c.AdjustBalance(context.Background(), guild, idField(v, "user_id"), numField(v, "amount"), v["reason"])
	},
}

var memberRolesDesc = &entityDesc{
	name:     "member roles",
	tab:      tabUsers,
	doneText: "roles updated",
	fields: []fieldDef{
		{key: "user_id", label: "User", kind: fieldID, required: true},
		{key: "role_ids", label: "Role ids", required: true, placeholder: "comma separated"},
	},
	save: func(c *api.Client, guild snowflake.ID, _ int64, v map[string]string) error {
		ids, err := parseIDList(v["role_ids"])
		if err != nil {
			return err
		}
		return c.SetMemberRoles(context.Background(), guild, idField(v, "user_id"), ids)
	},
}

func moderationDesc(action string) *entityDesc {
	fields := []fieldDef{
		{key: "user_id", label: "User", kind: fieldID, required: true},
		{key: "reason", label: "Reason", required: true},
	}
	if action == "timeout" {
		fields = append(fields, fieldDef{key: "duration_minutes", label: "Minutes", kind: fieldNumber, required: true})
	}
	return &entityDesc{
		name:     action,
		tab:      tabModeration,
		doneText: action + " applied",
		fields:   fields,
		save: func(c *api.Client, guild snowflake.ID, _ int64, v map[string]string) error {
			return c.Moderate(context.Background(), guild, action, idField(v, "user_id"), v["reason"], numField(v, "duration_minutes"))
		},
	}
}

var configDesc = &entityDesc{
	name: "guild config",
	tab:  tabConfig,
	fields: []fieldDef{
		{key: "prefix", label: "Prefix", placeholder: "!"},
		{key: "currency_name", label: "Currency name", placeholder: "coins"},
		{key: "currency_symbol", label: "Currency symbol", placeholder: "🪙"},
		{key: "welcome_channel_id", label: "Welcome channel", kind: fieldID},
		{key: "log_channel_id", label: "Log channel", kind: fieldID},
		{key: "daily_reward", label: "Daily reward", kind: fieldNumber},
	},
	fill: func(m *appModel, _ int64) (map[string]string, bool) {
		cfg := m.lists.cfg
		if cfg == nil {
			return nil, false
		}
		return map[string]string{
			"prefix":             cfg.Prefix,
			"currency_name":      cfg.CurrencyName,
			"currency_symbol":    cfg.CurrencySymbol,
			"welcome_channel_id": optionalID(cfg.WelcomeChannelID),
			"log_channel_id":     optionalID(cfg.LogChannelID),
			"daily_reward":       strconv.FormatInt(cfg.DailyReward, 10),
		}, true
	},
	save: func(c *api.Client, guild snowflake.ID, _ int64, v map[string]string) error {
		cfg := model.GuildConfig{
			Prefix:           v["prefix"],
			CurrencyName:     v["currency_name"],
			CurrencySymbol:   v["currency_symbol"],
			WelcomeChannelID: idField(v, "welcome_channel_id"),
			LogChannelID:     idField(v, "log_channel_id"),
			DailyReward:      numField(v, "daily_reward"),
		}
		return c.UpdateGuildConfig(context.Background(), guild, cfg)
	},
}

var sendEmbedDesc = &entityDesc{
	name:     "send embed",
	tab:      tabEmbeds,
	doneText: "embed sent",
	fields: []fieldDef{
		{key: "channel_id", label: "Channel", kind: fieldID, required: true},
	},
	// fill only checks the embed is still in the loaded list; the form
	// itself starts blank (just the target channel).
	fill: func(m *appModel, id int64) (map[string]string, bool) {
		for _, e := range m.lists.embeds {
			if e.EmbedID == id {
				return map[string]string{}, true
			}
		}
		return nil, false
	},
	save: func(c *api.Client, guild snowflake.ID, id int64, v map[string]string) error {
		return c.SendEmbed(context.Background(), guild, id, idField(v, "channel_id"))
	},
}

func optionalID(id snowflake.ID) string {
	if id == 0 {
		return ""
	}
	return id.String()
}

func boolWord(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parseIDList(raw string) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	for _, part := range splitTrim(raw) {
		id, err := snowflake.Parse(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

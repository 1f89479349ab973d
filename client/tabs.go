package main

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harunoki/guildctl/model"
)

type tabID string

const (
	tabDashboard     tabID = "dashboard"
	tabUsers         tabID = "users"
	tabShop          tabID = "shop"
	tabTasks         tabID = "tasks"
	tabAnnouncements tabID = "announcements"
	tabEmbeds        tabID = "embeds"
	tabTransactions  tabID = "transactions"
	tabRoles         tabID = "roles"
	tabModeration    tabID = "moderation"
	tabSchedules     tabID = "schedules"
	tabConfig        tabID = "config"
)

var tabOrder = []tabID{
	tabDashboard, tabUsers, tabShop, tabTasks, tabAnnouncements,
	tabEmbeds, tabTransactions, tabRoles, tabModeration, tabSchedules, tabConfig,
}

// tabDataMsg is a finished tab load. gen pins it to the server context
// it was issued under.
type tabDataMsg struct {
	gen  int
	tab  tabID
	data any
	err  error
}

// tabLists holds the transient copies of backend list data, one slice
// per tab, replaced on every reload.
type tabLists struct {
	shop          []model.ShopItem
	tasks         []model.Task
	announcements []model.Announcement
	embeds        []model.Embed
	schedules     []model.ChannelSchedule
	transactions  []model.Transaction
	members       []model.Member
	memberTotal   int
	memberPage    int
	roles         []model.Role
	cfg           *model.GuildConfig

	loading map[tabID]bool
	errs    map[tabID]string
}

func newTabLists() tabLists {
	return tabLists{
		memberPage: 1,
		loading:    make(map[tabID]bool),
		errs:       make(map[tabID]string),
	}
}

const memberPageSize = 20

func memberPageCount(total int) int {
	pages := (total + memberPageSize - 1) / memberPageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// tabLoaders is the static dispatch table from tab id to its data
// loader. Tabs without an entry (moderation) have nothing to fetch.
var tabLoaders = map[tabID]func(m *appModel) tea.Cmd{
	tabDashboard: loadConfigCmd(tabDashboard),
	tabConfig:    loadConfigCmd(tabConfig),
	tabUsers: func(m *appModel) tea.Cmd {
		c, guild, gen, page := m.api, m.currentServer, m.gen, m.lists.memberPage
		return func() tea.Msg {
			members, total, err := c.Members(context.Background(), guild, page, memberPageSize)
			if err != nil {
				return tabDataMsg{gen: gen, tab: tabUsers, err: err}
			}
			return tabDataMsg{gen: gen, tab: tabUsers, data: memberPageData{members: members, total: total}}
		}
	},
	tabShop: func(m *appModel) tea.Cmd {
		c, guild, gen := m.api, m.currentServer, m.gen
		return func() tea.Msg {
			items, err := c.ShopItems(context.Background(), guild)
			return tabDataMsg{gen: gen, tab: tabShop, data: items, err: err}
		}
	},
	tabTasks: func(m *appModel) tea.Cmd {
		c, guild, gen := m.api, m.currentServer, m.gen
		return func() tea.Msg {
			tasks, err := c.Tasks(context.Background(), guild)
			return tabDataMsg{gen: gen, tab: tabTasks, data: tasks, err: err}
		}
	},
	tabAnnouncements: func(m *appModel) tea.Cmd {
		c, guild, gen := m.api, m.currentServer, m.gen
		return func() tea.Msg {
			anns, err := c.Announcements(context.Background(), guild)
			return tabDataMsg{gen: gen, tab: tabAnnouncements, data: anns, err: err}
		}
	},
	tabEmbeds: func(m *appModel) tea.Cmd {
		c, guild, gen := m.api, m.currentServer, m.gen
		return func() tea.Msg {
			embeds, err := c.Embeds(context.Background(), guild)
			return tabDataMsg{gen: gen, tab: tabEmbeds, data: embeds, err: err}
		}
	},
	tabTransactions: func(m *appModel) tea.Cmd {
		c, guild, gen := m.api, m.currentServer, m.gen
		return func() tea.Msg {
			txs, err := c.Transactions(context.Background(), guild)
			return tabDataMsg{gen: gen, tab: tabTransactions, data: txs, err: err}
		}
	},
	tabRoles: func(m *appModel) tea.Cmd {
		c, guild, gen := m.api, m.currentServer, m.gen
		return func() tea.Msg {
			roles, err := c.Roles(context.Background(), guild)
			return tabDataMsg{gen: gen, tab: tabRoles, data: roles, err: err}
		}
	},
	tabSchedules: func(m *appModel) tea.Cmd {
		c, guild, gen := m.api, m.currentServer, m.gen
		return func() tea.Msg {
			scheds, err := c.Schedules(context.Background(), guild)
			return tabDataMsg{gen: gen, tab: tabSchedules, data: scheds, err: err}
		}
	},
}

type memberPageData struct {
	members []model.Member
	total   int
}

func loadConfigCmd(tab tabID) func(m *appModel) tea.Cmd {
	return func(m *appModel) tea.Cmd {
		c, guild, gen := m.api, m.currentServer, m.gen
		return func() tea.Msg {
			cfg, err := c.GuildConfig(context.Background(), guild)
			return tabDataMsg{gen: gen, tab: tab, data: cfg, err: err}
		}
	}
}

// applyTabData folds a load result into the lists. Stale generations
// are dropped so a slow fetch for server A cannot clobber server B.
func (m *appModel) applyTabData(msg tabDataMsg) {
	if msg.gen != m.gen {
		return
	}
	m.lists.loading[msg.tab] = false
	if msg.err != nil {
		m.lists.errs[msg.tab] = msg.err.Error()
		return
	}
	delete(m.lists.errs, msg.tab)
	switch data := msg.data.(type) {
	case []model.ShopItem:
		m.lists.shop = data
	case []model.Task:
		m.lists.tasks = data
	case []model.Announcement:
		m.lists.announcements = data
	case []model.Embed:
		m.lists.embeds = data
	case []model.ChannelSchedule:
		m.lists.schedules = data
	case []model.Transaction:
		m.lists.transactions = data
	case []model.Role:
		m.lists.roles = data
	case memberPageData:
		m.lists.members = data.members
		m.lists.memberTotal = data.total
	case *model.GuildConfig:
		m.lists.cfg = data
	}
}

func splitTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

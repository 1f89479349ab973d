package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/disgoorg/snowflake/v2"

	"github.com/harunoki/guildctl/model"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	tabActive     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1)
	tabInactive   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Padding(0, 1)
	toastOKStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	toastErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	premiumBadge  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C")).Render("★ premium")
)

func (m appModel) View() string {
	switch m.view {
	case viewLoading:
		return "\n  Checking session..."
	case viewLogin:
		return m.login.view(m.width, m.height)
	}
	return m.mainView()
}

func (m appModel) mainView() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.tabBarView())
	b.WriteString("\n\n")

	switch {
	case m.form != nil:
		b.WriteString(m.form.view())
	case m.confirm != nil:
		b.WriteString(m.confirm.view())
	case !m.serversLoaded:
		b.WriteString("  Loading servers...")
	case len(m.servers) == 0:
		b.WriteString(m.noServersView())
	default:
		b.WriteString(m.tabBodyView())
	}

	b.WriteString("\n\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m appModel) headerView() string {
	left := headerStyle.Render("guildctl")
	if srv := m.currentServerInfo(); srv != nil {
		name := fmt.Sprintf("%s (%d members)", srv.Name, srv.MemberCount)
		if srv.IsPremium() {
			name += "  " + premiumBadge
		}
		left += "  " + name
	}
	right := ""
	if m.user != nil {
		right = dimStyle.Render(fmt.Sprintf("%s [%s]", m.user.Label(), m.user.Role))
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

func (m appModel) tabBarView() string {
	var parts []string
	for _, t := range tabOrder {
		if t == m.activeTab {
			parts = append(parts, tabActive.Render(string(t)))
		} else {
			parts = append(parts, tabInactive.Render(string(t)))
		}
	}
	return " " + strings.Join(parts, "")
}

func (m appModel) noServersView() string {
	return "  No servers are linked to this account yet.\n\n" +
		"  Invite the bot to a server, then press S to sync your guilds."
}

func (m appModel) tabBodyView() string {
	if m.lists.loading[m.activeTab] {
		return "  Loading..."
	}
	if errText, ok := m.lists.errs[m.activeTab]; ok {
		return "  " + toastErrStyle.Render("failed to load: "+errText)
	}

	switch m.activeTab {
	case tabDashboard:
		return m.dashboardView()
	case tabConfig:
		return m.configView()
	case tabModeration:
		return m.moderationView()
	case tabTransactions:
		return m.transactionsView()
	}
	return m.tbl.View()
}

func (m appModel) dashboardView() string {
	srv := m.currentServerInfo()
	if srv == nil {
		return "  Select a server to see its dashboard."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  Server     %s (%s)\n", srv.Name, srv.ID)
	fmt.Fprintf(&b, "  Members    %d\n", srv.MemberCount)
	fmt.Fprintf(&b, "  Tier       %s\n", srv.Tier)
	if cfg := m.lists.cfg; cfg != nil {
		fmt.Fprintf(&b, "  Currency   %s %s\n", cfg.CurrencySymbol, cfg.CurrencyName)
		fmt.Fprintf(&b, "  Prefix     %s\n", cfg.Prefix)
	}
	fmt.Fprintf(&b, "\n  Cached: %d users, %d channels, %d roles\n",
		len(m.cache.users), len(m.cache.channels), len(m.cache.roles))
	return b.String()
}

func (m appModel) configView() string {
	cfg := m.lists.cfg
	if cfg == nil {
		return "  Config not loaded."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  Prefix            %s\n", cfg.Prefix)
	fmt.Fprintf(&b, "  Currency          %s %s\n", cfg.CurrencySymbol, cfg.CurrencyName)
	fmt.Fprintf(&b, "  Daily reward      %d\n", cfg.DailyReward)
	fmt.Fprintf(&b, "  Welcome channel   %s\n", m.channelLabel(cfg.WelcomeChannelID))
	fmt.Fprintf(&b, "  Log channel       %s\n", m.channelLabel(cfg.LogChannelID))
	b.WriteString("\n  e: edit config")
	return b.String()
}

func (m appModel) channelLabel(id snowflake.ID) string {
	if id == 0 {
		return dimStyle.Render("not set")
	}
	return m.cache.displayName(refChannels, id)
}

func (m appModel) moderationView() string {
	return "  Moderation actions run against a user id.\n\n" +
		"  k: kick · B: ban · t: timeout\n\n" +
		"  Every action asks for a reason and is logged."
}

func (m appModel) transactionsView() string {
	stats := computeTxStats(m.lists.transactions)
	var b strings.Builder
	fmt.Fprintf(&b, "  %d transactions · total %s · average %.1f",
		stats.Count, model.FormatSigned(stats.Total), stats.Average)
	if stats.TopCount > 0 {
		fmt.Fprintf(&b, " · most active: %s (%d)",
			m.cache.displayName(refUsers, stats.TopUser), stats.TopCount)
	}
	b.WriteString("\n\n")
	b.WriteString(m.tbl.View())
	return b.String()
}

func (m appModel) footerView() string {
	var help string
	switch {
	case m.form != nil, m.confirm != nil:
		help = ""
	case m.activeTab == tabUsers:
		help = "b: balance · m: roles · +/-: page · r: reload"
	case m.activeTab == tabEmbeds:
		help = "n: new · e: edit · d: delete · s: send · r: reload"
	case m.activeTab == tabSchedules:
		help = "n: new · e: edit · d: delete · t: toggle · l: lock · u: unlock"
	case m.activeTab == tabConfig:
		help = "e: edit · r: reload"
	case m.activeTab == tabModeration:
		help = "k: kick · B: ban · t: timeout"
	case entityByTab[m.activeTab] != nil:
		help = "n: new · e: edit · d: delete · r: reload"
	default:
		help = "r: reload"
	}
	line := " " + dimStyle.Render(help+"  ·  [/]: tabs · </>: server · S: sync · L: logout · q: quit")
	if m.toastText != "" {
		style := toastOKStyle
		if m.toastErr {
			style = toastErrStyle
		}
		line += "\n " + style.Render(m.toastText)
	}
	return line
}

// refreshTable rebuilds the list table for the active tab from the
// loaded data plus the reference cache.
func (m *appModel) refreshTable() {
	var cols []table.Column
	var rows []table.Row

	switch m.activeTab {
	case tabUsers:
		cols = []table.Column{
			{Title: "ID", Width: 20}, {Title: "Name", Width: 24},
			{Title: "Balance", Width: 10}, {Title: "Roles", Width: 30},
		}
		for _, u := range m.lists.members {
			rows = append(rows, table.Row{
				u.ID.String(), u.Label(),
				fmt.Sprintf("%d", u.Balance), m.roleNames(u.RoleIDs),
			})
		}
	case tabShop:
		cols = []table.Column{
			{Title: "ID", Width: 6}, {Title: "Name", Width: 22}, {Title: "Price", Width: 8},
			{Title: "Stock", Width: 8}, {Title: "Category", Width: 12}, {Title: "Role", Width: 18},
		}
		for _, it := range m.lists.shop {
			role := ""
			if it.RoleID != 0 {
				role = m.cache.displayName(refRoles, it.RoleID)
			}
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", it.ItemID), it.Emoji + " " + it.Name,
				fmt.Sprintf("%d", it.Price), model.FormatLimit(it.Stock), it.Category, role,
			})
		}
	case tabTasks:
		cols = []table.Column{
			{Title: "ID", Width: 6}, {Title: "Name", Width: 22}, {Title: "Reward", Width: 8},
			{Title: "Duration", Width: 10}, {Title: "Claims", Width: 8},
			{Title: "Category", Width: 12}, {Title: "Global", Width: 7},
		}
		for _, t := range m.lists.tasks {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", t.TaskID), t.Name, fmt.Sprintf("%d", t.Reward),
				model.FormatHours(t.DurationHours), model.FormatLimit(t.MaxClaims),
				t.Category, boolWord(t.IsGlobal),
			})
		}
	case tabAnnouncements:
		cols = []table.Column{
			{Title: "ID", Width: 6}, {Title: "Title", Width: 26},
			{Title: "Channel", Width: 20}, {Title: "Pinned", Width: 7},
		}
		for _, a := range m.lists.announcements {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", a.AnnouncementID), a.Title,
				m.cache.displayName(refChannels, a.ChannelID), boolWord(a.IsPinned),
			})
		}
	case tabEmbeds:
		cols = []table.Column{
			{Title: "ID", Width: 6}, {Title: "Title", Width: 26},
			{Title: "Color", Width: 9}, {Title: "Footer", Width: 24},
		}
		for _, e := range m.lists.embeds {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", e.EmbedID), e.Title, e.Color, e.Footer,
			})
		}
	case tabTransactions:
		cols = []table.Column{
			{Title: "ID", Width: 6}, {Title: "User", Width: 22}, {Title: "Amount", Width: 10},
			{Title: "Reason", Width: 26}, {Title: "When", Width: 17},
		}
		for _, tx := range m.lists.transactions {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", tx.ID), m.cache.displayName(refUsers, tx.UserID),
				model.FormatSigned(tx.Amount), tx.Reason, tx.Timestamp.Format("2006-01-02 15:04"),
			})
		}
	case tabRoles:
		cols = []table.Column{
			{Title: "ID", Width: 20}, {Title: "Name", Width: 26}, {Title: "Color", Width: 9},
		}
		for _, ro := range m.lists.roles {
			rows = append(rows, table.Row{
				ro.ID.String(), ro.Name, fmt.Sprintf("#%06X", ro.Color),
			})
		}
	case tabSchedules:
		cols = []table.Column{
			{Title: "ID", Width: 6}, {Title: "Channel", Width: 20}, {Title: "Unlock", Width: 7},
			{Title: "Lock", Width: 7}, {Title: "TZ", Width: 16},
			{Title: "Days", Width: 14}, {Title: "On", Width: 4},
		}
		for _, s := range m.lists.schedules {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", s.ScheduleID), m.cache.displayName(refChannels, s.ChannelID),
				s.UnlockTime, s.LockTime, s.Timezone, formatDays(s.ActiveDays), boolWord(s.IsEnabled),
			})
		}
	default:
		return
	}

	height := m.height - 10
	if height < 4 {
		height = 4
	}
	m.tbl = table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
}

func (m *appModel) roleNames(ids []snowflake.ID) string {
	if len(ids) == 0 {
		return ""
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, m.cache.displayName(refRoles, id))
	}
	return strings.Join(names, ", ")
}

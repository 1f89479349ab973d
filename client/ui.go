package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/disgoorg/snowflake/v2"

	"github.com/harunoki/guildctl/api"
	"github.com/harunoki/guildctl/model"
)

type viewID int

const (
	viewLoading viewID = iota
	viewLogin
	viewMain
)

type serversMsg struct {
	servers []model.Server
	err     error
}

type formSavedMsg struct {
	desc *entityDesc
	err  error
}

type deletedMsg struct {
	desc *entityDesc
	id   int64
	err  error
}

// actionDoneMsg covers the one-shot mutations that are not form saves:
// schedule toggle/lock/unlock, embed send, guild sync.
type actionDoneMsg struct {
	label         string
	tab           tabID
	reloadServers bool
	err           error
}

type toastTickMsg struct{ seq int }

type appModel struct {
	api   *api.Client
	state *appState

	width, height int

	view  viewID
	login loginModel

	user          *model.SessionUser
	servers       []model.Server
	serversLoaded bool
	currentServer snowflake.ID
	gen           int

	cache *refData
	lists tabLists

	activeTab tabID
	tbl       table.Model

	form    *entityForm
	confirm *confirmDialog

	toastText string
	toastErr  bool
	toastSeq  int
}

func initialModel(c *api.Client, state *appState) appModel {
	return appModel{
		api:       c,
		state:     state,
		view:      viewLoading,
		login:     newLoginModel(),
		cache:     newRefData(),
		lists:     newTabLists(),
		activeTab: tabDashboard,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(checkSessionCmd(m.api), textinput.Blink)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.refreshTable()
		return m, nil

	case sessionMsg:
		return m.onSession(msg)

	case serversMsg:
		return m.onServers(msg)

	case cacheMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m.sessionExpired()
		}
		if m.cache.apply(msg) {
			m.refreshTable()
		}
		return m, nil

	case tabDataMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m.sessionExpired()
		}
		m.applyTabData(msg)
		m.refreshTable()
		return m, nil

	case formSavedMsg:
		return m.onFormSaved(msg)

	case deletedMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m.sessionExpired()
		}
		if msg.err != nil {
			return m, m.setToast("delete failed: "+errText(msg.err), true)
		}
		cmd := m.loadTab(msg.desc.tab)
		return m, tea.Batch(m.setToast(msg.desc.name+" deleted", false), cmd)

	case actionDoneMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m.sessionExpired()
		}
		if msg.err != nil {
			return m, m.setToast(msg.label+" failed: "+errText(msg.err), true)
		}
		var cmds []tea.Cmd
		cmds = append(cmds, m.setToast(msg.label+" done", false))
		if msg.tab != "" {
			cmds = append(cmds, m.loadTab(msg.tab))
		}
		if msg.reloadServers {
			cmds = append(cmds, loadServersCmd(m.api))
		}
		return m, tea.Batch(cmds...)

	case oauthURLMsg:
		if msg.err != nil {
			m.login.errText = "could not get OAuth URL: " + errText(msg.err)
			return m, nil
		}
		m.login.oauthURL = msg.url
		m.login.setFocus(2)
		return m, nil

	case logoutDoneMsg:
		if err := m.state.Clear(); err != nil {
			log.Printf("clearing state file: %v", err)
		}
		m.user = nil
		m.servers = nil
		m.serversLoaded = false
		m.currentServer = 0
		m.cache = newRefData()
		m.lists = newTabLists()
		m.form = nil
		m.confirm = nil
		m.view = viewLogin
		m.login = newLoginModel()
		return m, textinput.Blink

	case toastTickMsg:
		if msg.seq == m.toastSeq {
			m.toastText = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	// Everything else (blink ticks etc.) goes to whichever input owns
	// focus.
	return m.updateFocused(msg)
}

func (m appModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch {
	case m.view == viewLogin:
		return m, m.login.update(msg)
	case m.form != nil:
		return m, m.form.update(msg)
	default:
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}
}

// --- session handling ---

func (m appModel) onSession(msg sessionMsg) (tea.Model, tea.Cmd) {
	m.login.busy = false
	if msg.err != nil {
		if msg.fromLogin {
			m.login.errText = loginErrText(msg.err)
		} else {
			// Startup check: any failure just means "log in".
			log.Printf("session check: %v", msg.err)
		}
		m.view = viewLogin
		return m, textinput.Blink
	}
	m.user = msg.user
	m.view = viewMain
	return m, loadServersCmd(m.api)
}

func (m appModel) sessionExpired() (tea.Model, tea.Cmd) {
	m.user = nil
	m.currentServer = 0
	m.form = nil
	m.confirm = nil
	m.view = viewLogin
	m.login = newLoginModel()
	m.login.errText = "session expired, please sign in again"
	return m, textinput.Blink
}

func loadServersCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		servers, err := c.Servers(context.Background())
		return serversMsg{servers: servers, err: err}
	}
}

func (m appModel) onServers(msg serversMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, api.ErrUnauthorized) {
		return m.sessionExpired()
	}
	if msg.err != nil {
		return m, m.setToast("could not load servers: "+errText(msg.err), true)
	}
	m.servers = msg.servers
	m.serversLoaded = true
	if len(m.servers) == 0 {
		// Not an error: the "no servers" view renders instead.
		m.currentServer = 0
		return m, nil
	}
	pick := m.state.LastServer()
	if m.serverByID(pick) == nil {
		pick = m.servers[0].ID.String()
	}
	cmd := m.selectServer(pick)
	return m, cmd
}

func (m *appModel) serverByID(raw string) *model.Server {
	for i := range m.servers {
		if m.servers[i].ID.String() == raw {
			return &m.servers[i]
		}
	}
	return nil
}

func (m *appModel) currentServerInfo() *model.Server {
	if m.currentServer == 0 {
		return nil
	}
	return m.serverByID(m.currentServer.String())
}

// --- server context ---

// selectServer switches the current guild. Empty and stale-DOM-style
// junk values ("undefined", "null") are rejected without touching the
// current context or issuing any fetch.
func (m *appModel) selectServer(raw string) tea.Cmd {
	if raw == "" || raw == "undefined" || raw == "null" {
		log.Printf("ignoring bogus server id %q", raw)
		return nil
	}
	id, err := snowflake.Parse(raw)
	if err != nil {
		log.Printf("ignoring unparseable server id %q: %v", raw, err)
		return nil
	}
	m.currentServer = id
	m.gen++
	if err := m.state.SetLastServer(raw); err != nil {
		log.Printf("persisting server selection: %v", err)
	}
	m.lists = newTabLists()
	m.form = nil
	m.confirm = nil

	cmds := m.cache.refresh(m.api, id)
	if cmd := m.loadTab(m.activeTab); cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.refreshTable()
	return tea.Batch(cmds...)
}

func (m *appModel) cycleServer(dir int) tea.Cmd {
	if len(m.servers) == 0 {
		return nil
	}
	idx := 0
	for i := range m.servers {
		if m.servers[i].ID == m.currentServer {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(m.servers)) % len(m.servers)
	return m.selectServer(m.servers[idx].ID.String())
}

// --- tab router ---

// showTab activates a tab and, when a server is selected, kicks off its
// loader. Unknown names are a no-op.
func (m *appModel) showTab(name tabID) tea.Cmd {
	known := false
	for _, t := range tabOrder {
		if t == name {
			known = true
			break
		}
	}
	if !known {
		return nil
	}
	m.activeTab = name
	cmd := m.loadTab(name)
	m.refreshTable()
	return cmd
}

func (m *appModel) loadTab(tab tabID) tea.Cmd {
	if m.currentServer == 0 {
		return nil
	}
	loader, ok := tabLoaders[tab]
	if !ok {
		return nil
	}
	m.lists.loading[tab] = true
	return loader(m)
}

func (m *appModel) cycleTab(dir int) tea.Cmd {
	idx := 0
	for i, t := range tabOrder {
		if t == m.activeTab {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(tabOrder)) % len(tabOrder)
	return m.showTab(tabOrder[idx])
}

// --- form & confirm plumbing ---

func (m appModel) onFormSaved(msg formSavedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, api.ErrUnauthorized) {
		return m.sessionExpired()
	}
	if m.form != nil {
		m.form.submitting = false
	}
	if msg.err != nil {
		// Keep the form open so the operator can correct the input.
		if m.form != nil {
			m.form.errText = errText(msg.err)
		}
		return m, m.setToast("save failed: "+errText(msg.err), true)
	}
	m.form = nil
	done := msg.desc.doneText
	if done == "" {
		done = msg.desc.name + " saved"
	}
	cmd := m.loadTab(msg.desc.tab)
	return m, tea.Batch(m.setToast(done, false), cmd)
}

// openForm builds the shared modal for a descriptor. id 0 opens a blank
// create form; otherwise the entity is pulled from the cached list.
func (m *appModel) openForm(desc *entityDesc, id int64) tea.Cmd {
	if desc.premium {
		if srv := m.currentServerInfo(); srv != nil && !srv.IsPremium() {
			return m.setToast("channel schedules need a premium subscription", true)
		}
	}
	d := *desc
	if m.user != nil && !m.user.IsSuperadmin() {
		// Non-superadmins never see the global-task switch.
		fields := make([]fieldDef, 0, len(d.fields))
		for _, f := range d.fields {
			if f.key == "is_global" {
				continue
			}
			fields = append(fields, f)
		}
		d.fields = fields
	}
	var prefill map[string]string
	if id != 0 && d.fill != nil {
		var ok bool
		prefill, ok = d.fill(m, id)
		if !ok {
			return m.setToast(fmt.Sprintf("%s %d is not in the loaded list", d.name, id), true)
		}
	}
	m.form = newEntityForm(&d, id, prefill)
	return textinput.Blink
}

// openConfigForm always edits: the config singleton has no create path.
func (m *appModel) openConfigForm() tea.Cmd {
	prefill, ok := configDesc.fill(m, 0)
	if !ok {
		return m.setToast("config not loaded yet", true)
	}
	m.form = newEntityForm(configDesc, 0, prefill)
	return textinput.Blink
}

func deleteEntityCmd(c *api.Client, guild snowflake.ID, desc *entityDesc, id int64) tea.Cmd {
	return func() tea.Msg {
		err := desc.remove(c, guild, id)
		if err == nil {
			c.LogAction(context.Background(), guild, desc.name+" deleted", fmt.Sprintf("id=%d", id))
		}
		return deletedMsg{desc: desc, id: id, err: err}
	}
}

func scheduleActionCmd(c *api.Client, guild snowflake.ID, action string, id int64) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch action {
		case "toggle":
			err = c.ToggleSchedule(context.Background(), guild, id)
		case "lock":
			err = c.LockScheduleChannel(context.Background(), guild, id)
		case "unlock":
			err = c.UnlockScheduleChannel(context.Background(), guild, id)
		}
		if err == nil {
			c.LogAction(context.Background(), guild, "schedule "+action, fmt.Sprintf("id=%d", id))
		}
		return actionDoneMsg{label: "schedule " + action, tab: tabSchedules, err: err}
	}
}

func syncGuildsCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		err := c.SyncGuilds(context.Background())
		return actionDoneMsg{label: "guild sync", reloadServers: true, err: err}
	}
}

// --- key dispatch ---

func (m appModel) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view == viewLogin || m.view == viewLoading {
		return m.onLoginKey(msg)
	}

	if m.confirm != nil {
		switch msg.String() {
		case "y", "Y":
			action := m.confirm.action
			m.confirm = nil
			return m, action
		case "n", "N", "esc":
			m.confirm = nil
			return m, nil
		}
		return m, nil
	}

	if m.form != nil {
		return m.onFormKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "L":
		return m, logoutCmd(m.api)
	case "]", "right":
		return m, m.cycleTab(1)
	case "[", "left":
		return m, m.cycleTab(-1)
	case ">":
		return m, m.cycleServer(1)
	case "<":
		return m, m.cycleServer(-1)
	case "r":
		return m, m.loadTab(m.activeTab)
	case "S":
		return m, syncGuildsCmd(m.api)
	}

	if cmd, handled := m.tabKey(msg.String()); handled {
		return m, cmd
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

// tabKey handles the per-tab actions for the active tab.
func (m *appModel) tabKey(key string) (tea.Cmd, bool) {
	desc := entityByTab[m.activeTab]

	switch key {
	case "n":
		if desc == nil {
			return nil, false
		}
		return m.openForm(desc, 0), true
	case "e":
		if m.activeTab == tabConfig {
			return m.openConfigForm(), true
		}
		if desc == nil {
			return nil, false
		}
		id, ok := m.selectedEntityID()
		if !ok {
			return m.setToast("nothing selected", true), true
		}
		return m.openForm(desc, id), true
	case "d":
		if desc == nil || desc.remove == nil {
			return nil, false
		}
		id, ok := m.selectedEntityID()
		if !ok {
			return m.setToast("nothing selected", true), true
		}
		m.confirm = &confirmDialog{
			prompt: fmt.Sprintf("Delete %s #%d? This cannot be undone.", desc.name, id),
			action: deleteEntityCmd(m.api, m.currentServer, desc, id),
		}
		return nil, true
	}

	switch m.activeTab {
	case tabUsers:
		switch key {
		case "b":
			return m.openForm(balanceDesc, 0), true
		case "m":
			return m.openForm(memberRolesDesc, 0), true
		case "+":
			if m.lists.memberPage < memberPageCount(m.lists.memberTotal) {
				m.lists.memberPage++
				return m.loadTab(tabUsers), true
			}
			return nil, true
		case "-":
			if m.lists.memberPage > 1 {
				m.lists.memberPage--
				return m.loadTab(tabUsers), true
			}
			return nil, true
		}
	case tabEmbeds:
		if key == "s" {
			id, ok := m.selectedEntityID()
			if !ok {
				return m.setToast("nothing selected", true), true
			}
			return m.openForm(sendEmbedDesc, id), true
		}
	case tabSchedules:
		switch key {
		case "t", "l", "u":
			id, ok := m.selectedEntityID()
			if !ok {
				return m.setToast("nothing selected", true), true
			}
			action := map[string]string{"t": "toggle", "l": "lock", "u": "unlock"}[key]
			return scheduleActionCmd(m.api, m.currentServer, action, id), true
		}
	case tabModeration:
		switch key {
		case "k":
			return m.openForm(moderationDesc("kick"), 0), true
		case "B":
			return m.openForm(moderationDesc("ban"), 0), true
		case "t":
			return m.openForm(moderationDesc("timeout"), 0), true
		}
	}
	return nil, false
}

func (m appModel) onLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+d":
		return m, oauthURLCmd(m.api)
	case "tab", "down":
		m.login.setFocus(m.login.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.login.setFocus(m.login.focus - 1)
		return m, nil
	case "enter":
		if m.login.busy {
			return m, nil
		}
		if m.login.oauthURL != "" && m.login.focus == 2 {
			code := m.login.code.Value()
			if code == "" {
				m.login.errText = "OAuth code is required"
				return m, nil
			}
			m.login.busy = true
			return m, oauthCallbackCmd(m.api, code)
		}
		user, pass := m.login.username.Value(), m.login.password.Value()
		if user == "" || pass == "" {
			m.login.errText = "username and password are required"
			return m, nil
		}
		m.login.busy = true
		m.login.errText = ""
		return m, loginCmd(m.api, user, pass)
	}
	return m, m.login.update(msg)
}

func (m appModel) onFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case "esc":
		if !f.submitting {
			m.form = nil
		}
		return m, nil
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return m, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return m, nil
	case "enter":
		if f.focus < len(f.inputs)-1 {
			f.setFocus(f.focus + 1)
			return m, nil
		}
		return m, f.submit(m.api, m.currentServer)
	case "ctrl+s":
		return m, f.submit(m.api, m.currentServer)
	}
	return m, f.update(msg)
}

// --- toast ---

func (m *appModel) setToast(text string, isErr bool) tea.Cmd {
	m.toastText = text
	m.toastErr = isErr
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return toastTickMsg{seq: seq}
	})
}

func errText(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// selectedEntityID reads the id out of the highlighted table row. Every
// list table keeps the backend id in its first column.
func (m *appModel) selectedEntityID() (int64, bool) {
	row := m.tbl.SelectedRow()
	if len(row) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

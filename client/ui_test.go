package main

import (
	"path/filepath"
	"testing"

	"github.com/disgoorg/snowflake/v2"

	"github.com/harunoki/guildctl/api"
	"github.com/harunoki/guildctl/model"
)

func testModel(t *testing.T) appModel {
	t.Helper()
	state := newAppState(filepath.Join(t.TempDir(), "state.json"))
	return initialModel(api.New(), state)
}

func TestSelectServerRejectsBogusIDs(t *testing.T) {
	m := testModel(t)
	m.currentServer = snowflake.ID(111)
	before := m.cache.gen

	for _, bogus := range []string{"", "undefined", "null", "not-a-number"} {
		if cmd := m.selectServer(bogus); cmd != nil {
			t.Fatalf("id %q issued fetch commands", bogus)
		}
		if m.currentServer != snowflake.ID(111) {
			t.Fatalf("id %q changed the current server", bogus)
		}
		if m.cache.gen != before {
			t.Fatalf("id %q bumped the cache generation", bogus)
		}
	}
}

func TestSelectServerSwitchesContext(t *testing.T) {
	m := testModel(t)
	cmd := m.selectServer("222")
	if cmd == nil {
		t.Fatalf("valid id produced no refresh commands")
	}
	if m.currentServer != snowflake.ID(222) {
		t.Fatalf("current server not updated: %v", m.currentServer)
	}
	if m.state.LastServer() != "222" {
		t.Fatalf("selection not persisted: %q", m.state.LastServer())
	}
	if m.gen != 1 {
		t.Fatalf("generation not bumped: %d", m.gen)
	}
}

func TestShowTabUnknownIsNoOp(t *testing.T) {
	m := testModel(t)
	m.activeTab = tabShop
	if cmd := m.showTab("bogus"); cmd != nil {
		t.Fatalf("unknown tab ran a loader")
	}
	if m.activeTab != tabShop {
		t.Fatalf("unknown tab changed the active tab to %q", m.activeTab)
	}
}

func TestShowTabWithoutServerSkipsLoader(t *testing.T) {
	m := testModel(t)
	if cmd := m.showTab(tabShop); cmd != nil {
		t.Fatalf("loader ran with no server selected")
	}
	if m.activeTab != tabShop {
		t.Fatalf("tab not activated")
	}
	if m.lists.loading[tabShop] {
		t.Fatalf("loading flag set with no server selected")
	}
}

func TestUnauthorizedAnywhereReturnsToLogin(t *testing.T) {
	m := testModel(t)
	m.view = viewMain
	m.user = &model.SessionUser{Username: "op"}
	m.currentServer = snowflake.ID(1)

	next, _ := m.Update(tabDataMsg{gen: m.gen, tab: tabShop, err: api.ErrUnauthorized})
	got := next.(appModel)
	if got.view != viewLogin {
		t.Fatalf("expected login view after 401, got %v", got.view)
	}
	if got.user != nil {
		t.Fatalf("user not cleared after 401")
	}
}

func TestStaleTabDataDiscarded(t *testing.T) {
	m := testModel(t)
	m.view = viewMain
	m.currentServer = snowflake.ID(2)
	m.gen = 5 // context has moved on since the fetch was issued

	next, _ := m.Update(tabDataMsg{gen: 4, tab: tabShop, data: []model.ShopItem{{ItemID: 1, Name: "stale"}}})
	got := next.(appModel)
	if len(got.lists.shop) != 0 {
		t.Fatalf("stale fetch result overwrote the new server's state")
	}
}

func TestOpenFormPremiumGate(t *testing.T) {
	m := testModel(t)
	m.user = &model.SessionUser{Role: "server_owner"}
	m.servers = []model.Server{{ID: 9, Name: "free guild", Tier: "free"}}
	m.currentServer = snowflake.ID(9)

	m.openForm(scheduleDesc, 0)
	if m.form != nil {
		t.Fatalf("schedule form opened on a free-tier server")
	}

	m.servers[0].Tier = "premium"
	m.openForm(scheduleDesc, 0)
	if m.form == nil {
		t.Fatalf("schedule form blocked on a premium server")
	}
}

func TestSendEmbedKeyOpensForm(t *testing.T) {
	m := testModel(t)
	m.view = viewMain
	m.user = &model.SessionUser{Role: "superadmin"}
	m.currentServer = snowflake.ID(1)
	m.activeTab = tabEmbeds
	m.lists.embeds = []model.Embed{{EmbedID: 5, Title: "welcome"}}
	m.refreshTable()

	if _, handled := m.tabKey("s"); !handled {
		t.Fatalf("send key not handled on embeds tab")
	}
	if m.form == nil {
		t.Fatalf("send form did not open")
	}
	if m.form.id != 5 {
		t.Fatalf("send form lost the embed id, got %d", m.form.id)
	}
	if len(m.form.inputs) != 1 {
		t.Fatalf("send form should only ask for the channel, got %d fields", len(m.form.inputs))
	}
}

func TestSendEmbedUnknownIDRejected(t *testing.T) {
	m := testModel(t)
	m.view = viewMain
	m.currentServer = snowflake.ID(1)
	m.activeTab = tabEmbeds
	m.lists.embeds = []model.Embed{{EmbedID: 5, Title: "welcome"}}

	if cmd := m.openForm(sendEmbedDesc, 99); cmd == nil {
		t.Fatalf("expected a toast command for a missing embed")
	}
	if m.form != nil {
		t.Fatalf("form opened for an embed that is not in the loaded list")
	}
	if m.toastText == "" || !m.toastErr {
		t.Fatalf("missing embed must surface an error toast, got %q", m.toastText)
	}
}

func TestActionDescriptorToastText(t *testing.T) {
	m := testModel(t)
	m.view = viewMain

	next, _ := m.Update(formSavedMsg{desc: sendEmbedDesc})
	got := next.(appModel)
	if got.toastText != "embed sent" {
		t.Fatalf("send toast: %q", got.toastText)
	}

	next, _ = m.Update(formSavedMsg{desc: moderationDesc("kick")})
	got = next.(appModel)
	if got.toastText != "kick applied" {
		t.Fatalf("moderation toast: %q", got.toastText)
	}

	next, _ = m.Update(formSavedMsg{desc: shopDesc})
	got = next.(appModel)
	if got.toastText != "shop item saved" {
		t.Fatalf("crud toast: %q", got.toastText)
	}
}

func TestMemberPagingClampedToLastPage(t *testing.T) {
	m := testModel(t)
	m.view = viewMain
	m.currentServer = snowflake.ID(1)
	m.activeTab = tabUsers
	m.lists.memberTotal = 25 // two pages at 20 per page

	if cmd, handled := m.tabKey("+"); !handled || cmd == nil {
		t.Fatalf("page forward from page 1 should load page 2")
	}
	if m.lists.memberPage != 2 {
		t.Fatalf("expected page 2, got %d", m.lists.memberPage)
	}
	if cmd, _ := m.tabKey("+"); cmd != nil || m.lists.memberPage != 2 {
		t.Fatalf("paged past the last page: %d", m.lists.memberPage)
	}

	m.tabKey("-")
	if m.lists.memberPage != 1 {
		t.Fatalf("expected page 1, got %d", m.lists.memberPage)
	}
	if cmd, _ := m.tabKey("-"); cmd != nil || m.lists.memberPage != 1 {
		t.Fatalf("paged below page 1: %d", m.lists.memberPage)
	}
}

func TestGlobalFieldHiddenFromServerOwners(t *testing.T) {
	m := testModel(t)
	m.user = &model.SessionUser{Role: "server_owner"}
	m.currentServer = snowflake.ID(1)

	m.openForm(taskDesc, 0)
	if m.form == nil {
		t.Fatalf("task form did not open")
	}
	for _, f := range m.form.desc.fields {
		if f.key == "is_global" {
			t.Fatalf("is_global visible to a non-superadmin")
		}
	}

	m.form = nil
	m.user.Role = "superadmin"
	m.openForm(taskDesc, 0)
	found := false
	for _, f := range m.form.desc.fields {
		if f.key == "is_global" {
			found = true
		}
	}
	if !found {
		t.Fatalf("is_global missing for superadmin")
	}
}

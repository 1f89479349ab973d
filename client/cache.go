package main

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/disgoorg/snowflake/v2"

	"github.com/harunoki/guildctl/api"
	"github.com/harunoki/guildctl/model"
)

type refKind int

const (
	refUsers refKind = iota
	refChannels
	refRoles
)

// cacheMsg is the result of one of the three reference fetches. It
// carries the generation it was issued under so results for a server the
// operator has since switched away from are discarded.
type cacheMsg struct {
	gen      int
	kind     refKind
	users    []model.Member
	channels []model.Channel
	roles    []model.Role
	err      error
}

// refData is the per-server lookup cache: users, channels and roles
// keyed by snowflake. Each slice is replaced wholesale when its fetch
// succeeds; a failed fetch leaves the other two in place.
type refData struct {
	gen      int
	users    map[snowflake.ID]model.Member
	channels map[snowflake.ID]model.Channel
	roles    map[snowflake.ID]model.Role
}

func newRefData() *refData {
	return &refData{
		users:    make(map[snowflake.ID]model.Member),
		channels: make(map[snowflake.ID]model.Channel),
		roles:    make(map[snowflake.ID]model.Role),
	}
}

// refresh bumps the generation and returns the three fetch commands for
// the given server. The fetches are independent and may complete in any
// order.
func (r *refData) refresh(c *api.Client, guild snowflake.ID) []tea.Cmd {
	r.gen++
	gen := r.gen
	return []tea.Cmd{
		func() tea.Msg {
			users, _, err := c.Members(context.Background(), guild, 1, 1000)
			return cacheMsg{gen: gen, kind: refUsers, users: users, err: err}
		},
		func() tea.Msg {
			channels, err := c.Channels(context.Background(), guild)
			return cacheMsg{gen: gen, kind: refChannels, channels: channels, err: err}
		},
		func() tea.Msg {
			roles, err := c.Roles(context.Background(), guild)
			return cacheMsg{gen: gen, kind: refRoles, roles: roles, err: err}
		},
	}
}

// apply folds a fetch result into the cache. Stale generations and
// failed fetches change nothing.
func (r *refData) apply(msg cacheMsg) bool {
	if msg.gen != r.gen {
		log.Printf("discarding stale reference fetch (gen %d, current %d)", msg.gen, r.gen)
		return false
	}
	if msg.err != nil {
		log.Printf("reference fetch failed: %v", msg.err)
		return false
	}
	switch msg.kind {
	case refUsers:
		m := make(map[snowflake.ID]model.Member, len(msg.users))
		for _, u := range msg.users {
			m[u.ID] = u
		}
		r.users = m
	case refChannels:
		m := make(map[snowflake.ID]model.Channel, len(msg.channels))
		for _, ch := range msg.channels {
			m[ch.ID] = ch
		}
		r.channels = m
	case refRoles:
		m := make(map[snowflake.ID]model.Role, len(msg.roles))
		for _, ro := range msg.roles {
			m[ro.ID] = ro
		}
		r.roles = m
	}
	return true
}

// displayName resolves an id to a human label. Misses return a fallback
// embedding the raw id; this never fails.
func (r *refData) displayName(kind refKind, id snowflake.ID) string {
	switch kind {
	case refUsers:
		if u, ok := r.users[id]; ok {
			return u.Label()
		}
	case refChannels:
		if ch, ok := r.channels[id]; ok {
			return "#" + ch.Name
		}
	case refRoles:
		if ro, ok := r.roles[id]; ok {
			return "@" + ro.Name
		}
	}
	return fmt.Sprintf("unknown (%s)", id)
}

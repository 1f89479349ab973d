package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// appState is the little bit of client-side persistence the console
// keeps: the last selected server, so a restart lands the operator where
// they left off. Everything else lives on the backend.
type appState struct {
	LastServerID string `json:"last_server_id"`

	mu        sync.RWMutex
	stateFile string
}

func newAppState(filename string) *appState {
	if filename == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		filename = filepath.Join(dir, "guildctl", "state.json")
	}
	return &appState{stateFile: filename}
}

func (s *appState) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.stateFile); os.IsNotExist(err) {
		return nil
	}
	data, err := os.ReadFile(s.stateFile)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, s)
}

func (s *appState) saveInternal() error {
	if err := os.MkdirAll(filepath.Dir(s.stateFile), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.stateFile, data, 0644)
}

func (s *appState) LastServer() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastServerID
}

func (s *appState) SetLastServer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastServerID = id
	return s.saveInternal()
}

func (s *appState) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastServerID = ""
	return s.saveInternal()
}

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/mlb-batters/internal/batter"
)

const (
	TeamsFile   = "teams_directory.json"
	BattersFile = "batters.json"
)

// Storage reads and writes the data directory
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved data directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// TeamsPath returns the path to the team directory file
func (s *Storage) TeamsPath() string {
	return filepath.Join(s.dataDir, TeamsFile)
}

// BattersPath returns the path to the batter dataset
func (s *Storage) BattersPath() string {
	return filepath.Join(s.dataDir, BattersFile)
}

// LoadTeams reads the team directory
func (s *Storage) LoadTeams() ([]batter.Team, error) {
	data, err := os.ReadFile(s.TeamsPath())
	if err != nil {
		return nil, fmt.Errorf("reading team directory: %w", err)
	}

	var teams []batter.Team
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, fmt.Errorf("parsing team directory: %w", err)
	}

	for i, team := range teams {
		if team.Code == "" || team.Name == "" {
			return nil, fmt.Errorf("team directory entry %d: team_code and team_name are required", i)
		}
	}

	return teams, nil
}

// SaveBatters overwrites the batter dataset with players, in the given order
func (s *Storage) SaveBatters(players []*batter.Player) error {
	if players == nil {
		players = []*batter.Player{}
	}

	data, err := json.MarshalIndent(players, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding batters: %w", err)
	}

	if err := os.WriteFile(s.BattersPath(), data, 0644); err != nil {
		return fmt.Errorf("writing batters: %w", err)
	}

	return nil
}

// LoadBatters reads the batter dataset written by SaveBatters
func (s *Storage) LoadBatters() ([]*batter.Player, error) {
	data, err := os.ReadFile(s.BattersPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []*batter.Player{}, nil
		}
		return nil, fmt.Errorf("reading batters: %w", err)
	}

	var players []*batter.Player
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("parsing batters: %w", err)
	}

	return players, nil
}

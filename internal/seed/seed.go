package seed

import (
	"fmt"
	"log"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/daksh151005/homesync-hub-go/internal/advisor"
	"github.com/daksh151005/homesync-hub-go/internal/device"
	"github.com/daksh151005/homesync-hub-go/internal/routine"
	"github.com/daksh151005/homesync-hub-go/internal/schedule"
)

// Data is a complete first-run dataset for one user.
type Data struct {
	Devices   []DeviceSeed   `yaml:"devices"`
	Routines  []RoutineSeed  `yaml:"routines"`
	Schedules []ScheduleSeed `yaml:"schedules"`
	Energy    []EnergySeed   `yaml:"energy"`
}

type DeviceSeed struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Room   string `yaml:"room"`
	Type   string `yaml:"type"`
	Status string `yaml:"status"`
	Value  *int   `yaml:"value"`
}

type RoutineSeed struct {
	ID      string       `yaml:"id"`
	Name    string       `yaml:"name"`
	Icon    string       `yaml:"icon"`
	Actions []ActionSeed `yaml:"actions"`
}

type ActionSeed struct {
	DeviceID string `yaml:"device_id"`
	Action   string `yaml:"action"`
	Value    *int   `yaml:"value"`
}

type ScheduleSeed struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	DeviceID string   `yaml:"device_id"`
	Time     string   `yaml:"time"`
	Action   string   `yaml:"action"`
	Days     []string `yaml:"days"`
	Enabled  bool     `yaml:"enabled"`
}

type EnergySeed struct {
	Day   string  `yaml:"day"`
	Usage float64 `yaml:"usage"`
}

// Seeder populates a user's first-run dataset.
type Seeder struct {
	devices   *device.Repository
	routines  *routine.Repository
	schedules *schedule.Repository
	energy    *advisor.Repository
	data      Data

	seeded sync.Map // userID -> struct{}
}

// New creates a Seeder. When seedPath is non-empty the dataset is
// loaded from that YAML file; otherwise the built-in defaults apply.
func New(devices *device.Repository, routines *routine.Repository, schedules *schedule.Repository, energy *advisor.Repository, seedPath string) (*Seeder, error) {
	data := Defaults()
	if seedPath != "" {
		loaded, err := LoadFile(seedPath)
		if err != nil {
			return nil, err
		}
		data = loaded
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	return &Seeder{
		devices:   devices,
		routines:  routines,
		schedules: schedules,
		energy:    energy,
		data:      data,
	}, nil
}

// LoadFile parses a YAML seed dataset.
func LoadFile(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read seed file: %w", err)
	}
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("parse seed file: %w", err)
	}
	return data, nil
}

// EnsureUser seeds the dataset for a user whose registry is empty. A
// user with any existing device is left untouched.
func (s *Seeder) EnsureUser(userID string) error {
	if _, done := s.seeded.Load(userID); done {
		return nil
	}
	count, err := s.devices.Count(userID)
	if err != nil {
		return err
	}
	if count > 0 {
		s.seeded.Store(userID, struct{}{})
		return nil
	}

	for _, d := range s.data.Devices {
		err := s.devices.Insert(userID, device.Device{
			ID:     d.ID,
			Name:   d.Name,
			Room:   d.Room,
			Type:   device.Type(d.Type),
			Status: device.Status(d.Status),
			Value:  d.Value,
		})
		if err != nil {
			return fmt.Errorf("seed device %s: %w", d.ID, err)
		}
	}

	for _, r := range s.data.Routines {
		actions := make([]routine.Action, 0, len(r.Actions))
		for _, a := range r.Actions {
			actions = append(actions, routine.Action{
				DeviceID: a.DeviceID,
				Action:   routine.ActionKind(a.Action),
				Value:    a.Value,
			})
		}
		err := s.routines.Insert(userID, routine.Routine{
			ID:      r.ID,
			Name:    r.Name,
			Icon:    r.Icon,
			Actions: actions,
		})
		if err != nil {
			return fmt.Errorf("seed routine %s: %w", r.ID, err)
		}
	}

	for _, sc := range s.data.Schedules {
		err := s.schedules.Insert(userID, schedule.Schedule{
			ID:       sc.ID,
			Name:     sc.Name,
			DeviceID: sc.DeviceID,
			Time:     sc.Time,
			Action:   schedule.Action(sc.Action),
			Days:     sc.Days,
			Enabled:  sc.Enabled,
		})
		if err != nil {
			return fmt.Errorf("seed schedule %s: %w", sc.ID, err)
		}
	}

	for _, e := range s.data.Energy {
		err := s.energy.UpsertSample(userID, advisor.Sample{Day: e.Day, Usage: e.Usage})
		if err != nil {
			return fmt.Errorf("seed energy %s: %w", e.Day, err)
		}
	}

	s.seeded.Store(userID, struct{}{})
	log.Printf("Seeded first-run dataset for user %s (%d devices, %d routines, %d schedules)",
		userID, len(s.data.Devices), len(s.data.Routines), len(s.data.Schedules))
	return nil
}

func validate(data Data) error {
	for _, d := range data.Devices {
		t := device.Type(d.Type)
		if !device.ValidType(t) {
			return fmt.Errorf("seed device %s: unknown type %q", d.ID, d.Type)
		}
		if !device.ValidStatus(t, device.Status(d.Status)) {
			return fmt.Errorf("seed device %s: status %q not valid for type %q", d.ID, d.Status, d.Type)
		}
	}
	for _, sc := range data.Schedules {
		if !schedule.ValidTime(sc.Time) {
			return fmt.Errorf("seed schedule %s: invalid time %q", sc.ID, sc.Time)
		}
		if !schedule.ValidDays(sc.Days) {
			return fmt.Errorf("seed schedule %s: invalid days", sc.ID)
		}
		if !schedule.ValidAction(schedule.Action(sc.Action)) {
			return fmt.Errorf("seed schedule %s: invalid action %q", sc.ID, sc.Action)
		}
	}
	return nil
}

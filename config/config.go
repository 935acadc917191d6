// Package config defines the follower's startup configuration file.
package config

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/followwaypoints/follower"
	"go.viam.com/followwaypoints/logging"
	"go.viam.com/followwaypoints/services/navigation"
	"go.viam.com/followwaypoints/transport/udp"
)

// Defaults applied to fields left out of the file.
const (
	DefaultPoseTopic          = follower.DefaultPoseTopic
	DefaultGoalFrameID        = follower.DefaultFrameID
	DefaultResetTopic         = "path_reset"
	DefaultReadyTopic         = follower.DefaultReadyTopic
	DefaultVisualizationTopic = "waypoints"
	DefaultReceiveTimeoutSec  = 1.0
	DefaultResetCooldownSec   = 3.0
	DefaultDwellSec           = 5.0
	DefaultListenAddr         = "127.0.0.1:11411"
)

// UDP configures the network transport.
type UDP struct {
	ListenAddr        string `json:"listen_addr"`
	VisualizationAddr string `json:"visualization_addr,omitempty"`
	ReadBuffer        int    `json:"read_buffer,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (c *UDP) Validate(path string) error {
	if c.ListenAddr == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "listen_addr")
	}
	if c.ReadBuffer < 0 {
		return utils.NewConfigValidationError(path, errors.New("read_buffer must not be negative"))
	}
	return nil
}

// Config is the follower's configuration file.
type Config struct {
	ConfigFilePath string `json:"-"`

	PoseTopic          string `json:"custom_waypoints_topic"`
	GoalFrameID        string `json:"goal_frame_id"`
	ResetTopic         string `json:"reset_topic"`
	ReadyTopic         string `json:"ready_topic"`
	VisualizationTopic string `json:"visualization_topic"`

	ReceiveTimeoutSec float64 `json:"receive_timeout_sec"`
	ResetCooldownSec  float64 `json:"reset_cooldown_sec"`

	// DwellSec is the hold after the first waypoint. A negative value disables it.
	DwellSec float64 `json:"dwell_sec"`

	UDP        UDP               `json:"udp"`
	Navigation navigation.Config `json:"navigation"`

	// LogLevel is one of debug, info, warn or error. Debug overrides it.
	LogLevel logging.Level `json:"log_level"`
	Debug    bool          `json:"debug"`

	// LogFile, when set, also writes logs to this size rotated file.
	LogFile string `json:"log_file,omitempty"`
}

// Read reads a config from the given file, substituting environment variables.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(originalPath string, r io.Reader) (*Config, error) {
	cfg := &Config{ConfigFilePath: originalPath}
	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode Config from json")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(originalPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PoseTopic == "" {
		c.PoseTopic = DefaultPoseTopic
	}
	if c.GoalFrameID == "" {
		c.GoalFrameID = DefaultGoalFrameID
	}
	if c.ResetTopic == "" {
		c.ResetTopic = DefaultResetTopic
	}
	if c.ReadyTopic == "" {
		c.ReadyTopic = DefaultReadyTopic
	}
	if c.VisualizationTopic == "" {
		c.VisualizationTopic = DefaultVisualizationTopic
	}
	if c.ReceiveTimeoutSec == 0 {
		c.ReceiveTimeoutSec = DefaultReceiveTimeoutSec
	}
	if c.ResetCooldownSec == 0 {
		c.ResetCooldownSec = DefaultResetCooldownSec
	}
	if c.DwellSec == 0 {
		c.DwellSec = DefaultDwellSec
	}
	if c.UDP.ListenAddr == "" {
		c.UDP.ListenAddr = DefaultListenAddr
	}
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate(path string) error {
	if c.ReceiveTimeoutSec < 0 {
		return utils.NewConfigValidationError(path, errors.New("receive_timeout_sec must not be negative"))
	}
	if c.ResetCooldownSec < 0 {
		return utils.NewConfigValidationError(path, errors.New("reset_cooldown_sec must not be negative"))
	}
	topics := []struct{ field, topic string }{
		{"custom_waypoints_topic", c.PoseTopic},
		{"reset_topic", c.ResetTopic},
		{"ready_topic", c.ReadyTopic},
	}
	seen := map[string]string{}
	for _, t := range topics {
		if t.topic == "" {
			return utils.NewConfigValidationFieldRequiredError(path, t.field)
		}
		if other, ok := seen[t.topic]; ok {
			return utils.NewConfigValidationError(path, errors.Errorf("%s and %s share topic %q", other, t.field, t.topic))
		}
		seen[t.topic] = t.field
	}
	if err := c.UDP.Validate(path + ".udp"); err != nil {
		return err
	}
	return c.Navigation.Validate(path + ".navigation")
}

func seconds(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

// Level returns the level the follower logs at.
func (c *Config) Level() logging.Level {
	if c.Debug {
		return logging.DEBUG
	}
	return c.LogLevel
}

// FollowerOptions returns the follower settings the config describes.
func (c *Config) FollowerOptions() follower.Options {
	dwell := seconds(c.DwellSec)
	if c.DwellSec < 0 {
		dwell = -1
	}
	return follower.Options{
		FrameID:        c.GoalFrameID,
		PoseTopic:      c.PoseTopic,
		ReadyTopic:     c.ReadyTopic,
		ReceiveTimeout: seconds(c.ReceiveTimeoutSec),
		ResetCooldown:  seconds(c.ResetCooldownSec),
		DwellPeriod:    dwell,
	}
}

// Topics returns the inbound topic names the network listener routes on.
func (c *Config) Topics() udp.Topics {
	return udp.Topics{Poses: c.PoseTopic, Reset: c.ResetTopic, Ready: c.ReadyTopic}
}

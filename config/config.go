package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/colorfulnotion/lift/log"
	"github.com/xyproto/env/v2"
)

// Environment variables read by FromEnv.
const (
	EnvArch      = "LIFT_ARCH"
	EnvFamily    = "LIFT_FAMILY"
	EnvBigEndian = "LIFT_BIG_ENDIAN"
	EnvLogLevel  = "LIFT_LOG_LEVEL"
	EnvLogJSON   = "LIFT_LOG_JSON"
	EnvModules   = "LIFT_LOG_MODULES"
)

// Options selects an architecture and sets up logging.
type Options struct {
	Arch           string   `json:"arch"`
	Family         string   `json:"family,omitempty"`
	BigEndian      bool     `json:"bigendian"`
	LogLevel       string   `json:"loglevel"`
	LogJSON        bool     `json:"logjson"`
	EnabledModules []string `json:"modules,omitempty"`
}

// Default is a big-endian MIPS32 decoder logging at info.
func Default() Options {
	return Options{
		Arch:      "mips",
		BigEndian: true,
		LogLevel:  "info",
	}
}

// String returns the options as indented JSON.
func (o *Options) String() string {
	jsonData, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error marshaling JSON: %v", err)
	}
	return string(jsonData)
}

// Load reads options from a JSON file. Fields missing from the file keep
// their Default values.
func Load(path string) (Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse config %s: %w", path, err)
	}
	return opts, nil
}

// FromEnv overlays the LIFT_* environment variables that are set onto base.
// The environment is re-read on every call.
func FromEnv(base Options) Options {
	env.Load()
	opts := base
	opts.Arch = env.Str(EnvArch, base.Arch)
	opts.Family = env.Str(EnvFamily, base.Family)
	opts.LogLevel = env.Str(EnvLogLevel, base.LogLevel)
	if env.Has(EnvBigEndian) {
		opts.BigEndian = env.Bool(EnvBigEndian)
	}
	if env.Has(EnvLogJSON) {
		opts.LogJSON = env.Bool(EnvLogJSON)
	}
	if mods := env.Str(EnvModules); mods != "" {
		opts.EnabledModules = strings.Split(mods, ",")
	}
	return opts
}

// Apply installs the root logger and enables the listed log modules.
func (o *Options) Apply() error {
	setup := log.InitLogger
	if o.LogJSON {
		setup = log.InitJSONLogger
	}
	if err := setup(o.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", o.LogLevel, err)
	}
	log.EnableModules(o.EnabledModules...)
	return nil
}

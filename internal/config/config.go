package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game        GameConfig        `mapstructure:"game"`
	Server      ServerConfig      `mapstructure:"server"`
	Demo        DemoConfig        `mapstructure:"demo"`
	UI          UIConfig          `mapstructure:"ui"`
	Colors      ColorsConfig      `mapstructure:"colors"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// GameConfig holds game mechanics configuration
type GameConfig struct {
	Board BoardConfig `mapstructure:"board"`
	Input InputConfig `mapstructure:"input"`
}

// BoardConfig holds the default board constants. They are read when a game is
// created, so a change reaches the next launch; restarting a game keeps its size.
type BoardConfig struct {
	Rows  int `mapstructure:"rows"`
	Cols  int `mapstructure:"cols"`
	Mines int `mapstructure:"mines"`
}

// InputConfig holds pointer input settings
type InputConfig struct {
	DoubleTapDelayMs int `mapstructure:"double_tap_delay_ms"`
}

// DoubleTapDelay returns the double tap window as a duration
func (c InputConfig) DoubleTapDelay() time.Duration {
	return time.Duration(c.DoubleTapDelayMs) * time.Millisecond
}

// ServerConfig holds server configuration
type ServerConfig struct {
	GRPCServer GRPCServerConfig `mapstructure:"grpc_server"`
}

// GRPCServerConfig holds gRPC server configuration
type GRPCServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	LogLevel              string `mapstructure:"log_level"`
	MaxGames              int    `mapstructure:"max_games"`
	MaxBoardCells         int    `mapstructure:"max_board_cells"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
	SessionIdleTimeout    int    `mapstructure:"session_idle_timeout"` // seconds
	CleanupInterval       int    `mapstructure:"cleanup_interval"`     // seconds
	MonitorInterval       int    `mapstructure:"monitor_interval"`     // seconds, 0 disables
}

// DemoConfig holds settings for the terminal demo
type DemoConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	MaxMoves  int    `mapstructure:"max_moves"`
	Seed      int64  `mapstructure:"seed"` // 0 means time-based
}

// UIConfig holds UI/client configuration
type UIConfig struct {
	Window WindowConfig `mapstructure:"window"`
	Game   UIGameConfig `mapstructure:"game"`
}

// WindowConfig holds window settings
type WindowConfig struct {
	Title     string `mapstructure:"title"`
	Resizable bool   `mapstructure:"resizable"`
}

// UIGameConfig holds UI game settings
type UIGameConfig struct {
	TileSize        int  `mapstructure:"tile_size"`
	HeaderHeight    int  `mapstructure:"header_height"`
	ShowStartScreen bool `mapstructure:"show_start_screen"`
}

// ColorsConfig holds all color configurations
type ColorsConfig struct {
	Tiles   TileColorsConfig `mapstructure:"tiles"`
	UI      UIColorsConfig   `mapstructure:"ui"`
	Numbers [][3]int         `mapstructure:"numbers"` // index 0 is the color for "1"
}

// TileColorsConfig holds cell color settings
type TileColorsConfig struct {
	Hidden   [3]int `mapstructure:"hidden"`
	Revealed [3]int `mapstructure:"revealed"`
	Mine     [3]int `mapstructure:"mine"`
	MineHit  [3]int `mapstructure:"mine_hit"`
	Flag     [3]int `mapstructure:"flag"`
}

// UIColorsConfig holds UI color settings
type UIColorsConfig struct {
	Background [3]int `mapstructure:"background"`
	GridLines  [3]int `mapstructure:"grid_lines"`
	Header     [3]int `mapstructure:"header"`
	Counter    [3]int `mapstructure:"counter"`
	Text       [3]int `mapstructure:"text"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	VerboseLogging  bool `mapstructure:"verbose_logging"`
	ShowMines       bool `mapstructure:"show_mines"`
	ShowCoordinates bool `mapstructure:"show_coordinates"`
}

var (
	mu  sync.RWMutex
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Game defaults
	v.SetDefault("game.board.rows", 8)
	v.SetDefault("game.board.cols", 8)
	v.SetDefault("game.board.mines", 10)
	v.SetDefault("game.input.double_tap_delay_ms", 250)

	// gRPC server defaults
	v.SetDefault("server.grpc_server.host", "0.0.0.0")
	v.SetDefault("server.grpc_server.port", 50051)
	v.SetDefault("server.grpc_server.log_level", "info")
	v.SetDefault("server.grpc_server.max_games", 100)
	v.SetDefault("server.grpc_server.max_board_cells", 10000)
	v.SetDefault("server.grpc_server.enable_reflection", true)
	v.SetDefault("server.grpc_server.graceful_shutdown_delay", 5)
	v.SetDefault("server.grpc_server.session_idle_timeout", 1800)
	v.SetDefault("server.grpc_server.cleanup_interval", 60)
	v.SetDefault("server.grpc_server.monitor_interval", 30)

	// Terminal demo defaults
	v.SetDefault("demo.log_level", "info")
	v.SetDefault("demo.log_format", "console")
	v.SetDefault("demo.max_moves", 200)
	v.SetDefault("demo.seed", 0)

	// UI defaults
	v.SetDefault("ui.window.title", "Minesweeper")
	v.SetDefault("ui.window.resizable", true)
	v.SetDefault("ui.game.tile_size", 40)
	v.SetDefault("ui.game.header_height", 56)
	v.SetDefault("ui.game.show_start_screen", true)

	// Color defaults
	v.SetDefault("colors.tiles.hidden", []int{189, 189, 189})
	v.SetDefault("colors.tiles.revealed", []int{225, 225, 225})
	v.SetDefault("colors.tiles.mine", []int{20, 20, 20})
	v.SetDefault("colors.tiles.mine_hit", []int{220, 40, 40})
	v.SetDefault("colors.tiles.flag", []int{230, 60, 30})

	v.SetDefault("colors.ui.background", []int{150, 150, 150})
	v.SetDefault("colors.ui.grid_lines", []int{123, 123, 123})
	v.SetDefault("colors.ui.header", []int{189, 189, 189})
	v.SetDefault("colors.ui.counter", []int{255, 0, 0})
	v.SetDefault("colors.ui.text", []int{0, 0, 0})

	v.SetDefault("colors.numbers", [][]int{
		{0, 0, 255},
		{0, 128, 0},
		{255, 0, 0},
		{0, 0, 128},
		{128, 0, 0},
		{0, 128, 128},
		{0, 0, 0},
		{128, 128, 128},
	})

	// Development defaults
	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.show_mines", false)
	v.SetDefault("development.show_coordinates", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	nv := viper.New()

	setViperDefaults(nv)

	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		nv.SetConfigName("config")
		nv.SetConfigType("yaml")
		nv.AddConfigPath(".")
		nv.AddConfigPath("./config")
		nv.AddConfigPath("/etc/minesweeper")
	}

	// MSW_GAME_BOARD_ROWS overrides game.board.rows
	nv.SetEnvPrefix("MSW")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configPath != "" && errors.Is(err, fs.ErrNotExist):
			// Explicit path that does not exist: run on defaults
		case errors.As(err, &notFound):
			// No file in the default locations: run on defaults
		default:
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	c := &Config{}
	if err := nv.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	mu.Lock()
	v, cfg = nv, c
	mu.Unlock()
	return nil
}

// Get returns the global config instance. The returned value must be treated
// as read-only; reloads swap in a new instance.
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c != nil {
		return c
	}

	if err := Init(""); err != nil {
		panic("failed to initialize config with defaults: " + err.Error())
	}
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// reloadLocked decodes the current viper state into a fresh Config and swaps it in
// when it validates. Caller holds mu.
func reloadLocked() error {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	cfg = c
	return nil
}

// LoadEnvironmentConfig merges config.<env>.yaml from the loaded config's
// directory (or the working directory) over the current config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	envFile := fmt.Sprintf("config.%s.yaml", env)
	used := v.ConfigFileUsed()
	if used != "" {
		envFile = filepath.Join(filepath.Dir(used), envFile)
		// Keep watching the base file after the merge
		defer v.SetConfigFile(used)
	}

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error merging environment config %s: %w", envFile, err)
	}

	return reloadLocked()
}

// Set allows runtime config updates. Values that fail validation are kept in
// viper but not applied to the struct.
func Set(key string, value interface{}) error {
	mu.Lock()
	defer mu.Unlock()

	v.Set(key, value)
	return reloadLocked()
}

// GetString gets a string value from config
func GetString(key string) string {
	return GetViper().GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return GetViper().GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return GetViper().GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return GetViper().GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return GetViper().ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange runs on the
// watcher goroutine after a valid reload; invalid edits are reported through
// onError and leave the previous config in place.
func WatchConfig(onChange func(), onError func(error)) {
	wv := GetViper()
	wv.OnConfigChange(func(e fsnotify.Event) {
		mu.Lock()
		err := reloadLocked()
		mu.Unlock()

		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		if onChange != nil {
			onChange()
		}
	})
	wv.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	b := c.Game.Board
	if b.Rows <= 0 || b.Cols <= 0 {
		return fmt.Errorf("game.board rows and cols must be positive")
	}
	if b.Mines < 0 || b.Mines >= b.Rows*b.Cols {
		return fmt.Errorf("game.board.mines must be between 0 and rows*cols-1 (%d)", b.Rows*b.Cols-1)
	}
	if c.Game.Input.DoubleTapDelayMs < 0 {
		return fmt.Errorf("game.input.double_tap_delay_ms must be non-negative")
	}

	s := c.Server.GRPCServer
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("server.grpc_server.port must be between 1 and 65535")
	}
	if s.MaxGames <= 0 {
		return fmt.Errorf("server.grpc_server.max_games must be positive")
	}
	if s.MaxBoardCells <= 0 {
		return fmt.Errorf("server.grpc_server.max_board_cells must be positive")
	}
	if s.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.grpc_server.graceful_shutdown_delay must be non-negative")
	}
	if s.SessionIdleTimeout <= 0 || s.CleanupInterval <= 0 {
		return fmt.Errorf("server.grpc_server session_idle_timeout and cleanup_interval must be positive")
	}
	if s.MonitorInterval < 0 {
		return fmt.Errorf("server.grpc_server.monitor_interval must be non-negative")
	}

	if c.Demo.MaxMoves <= 0 {
		return fmt.Errorf("demo.max_moves must be positive")
	}

	if c.UI.Game.TileSize <= 0 {
		return fmt.Errorf("ui.game.tile_size must be positive")
	}
	if c.UI.Game.HeaderHeight < 0 {
		return fmt.Errorf("ui.game.header_height must be non-negative")
	}

	validateRGB := func(rgb [3]int, name string) error {
		for i, v := range rgb {
			if v < 0 || v > 255 {
				return fmt.Errorf("%s[%d] must be between 0 and 255", name, i)
			}
		}
		return nil
	}

	named := map[string][3]int{
		"colors.tiles.hidden":   c.Colors.Tiles.Hidden,
		"colors.tiles.revealed": c.Colors.Tiles.Revealed,
		"colors.tiles.mine":     c.Colors.Tiles.Mine,
		"colors.tiles.mine_hit": c.Colors.Tiles.MineHit,
		"colors.tiles.flag":     c.Colors.Tiles.Flag,
		"colors.ui.background":  c.Colors.UI.Background,
		"colors.ui.grid_lines":  c.Colors.UI.GridLines,
		"colors.ui.header":      c.Colors.UI.Header,
		"colors.ui.counter":     c.Colors.UI.Counter,
		"colors.ui.text":        c.Colors.UI.Text,
	}
	for name, rgb := range named {
		if err := validateRGB(rgb, name); err != nil {
			return err
		}
	}

	if len(c.Colors.Numbers) != 8 {
		return fmt.Errorf("colors.numbers must have 8 entries, got %d", len(c.Colors.Numbers))
	}
	for i, rgb := range c.Colors.Numbers {
		if err := validateRGB(rgb, fmt.Sprintf("colors.numbers[%d]", i)); err != nil {
			return err
		}
	}

	return nil
}

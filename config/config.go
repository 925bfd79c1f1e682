package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// StorageType 存储类型
type StorageType string

const (
	StorageTypeLocal    StorageType = "local"
	StorageTypeRemote   StorageType = "remote"
	StorageTypeMySQL    StorageType = "mysql"
	StorageTypeSQLite   StorageType = "sqlite"
	StorageTypePostgres StorageType = "postgres"
)

// StorageTypes 设置面板可选的存储类型
var StorageTypes = []StorageType{
	StorageTypeLocal,
	StorageTypeRemote,
	StorageTypeMySQL,
	StorageTypeSQLite,
	StorageTypePostgres,
}

const (
	// DefaultStorageKey 本地存储中保存收藏列表的键
	DefaultStorageKey = "shortlistedStudios"
	// DefaultBaseURL 远程接口的基础地址
	DefaultBaseURL = "http://localhost:5000/api"

	appDirName = "studio-shortlist"
)

// StorageConfig 存储配置
type StorageConfig struct {
	Type        StorageType    `json:"type" yaml:"type"`
	LocalPath   string         `json:"localPath" yaml:"localPath"`     // 本地存储文件
	StorageKey  string         `json:"storageKey" yaml:"storageKey"`   // 本地存储键名
	CatalogPath string         `json:"catalogPath" yaml:"catalogPath"` // 工作室目录文件
	Remote      RemoteConfig   `json:"remote" yaml:"remote"`
	MySQL       MySQLConfig    `json:"mySQL" yaml:"mySQL"`
	SQLite      SQLiteConfig   `json:"sqlite" yaml:"sqlite"`
	Postgres    PostgresConfig `json:"postgres" yaml:"postgres"`
}

// RemoteConfig 远程接口配置
type RemoteConfig struct {
	BaseURL string        `json:"baseURL" yaml:"baseURL"`
	// Timeout 请求超时，配置文件中写作 "10s"
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// RefetchOnFilter 打开筛选时是否重新拉取收藏列表
	RefetchOnFilter bool `json:"refetchOnFilter" yaml:"refetchOnFilter"`
}

// MarshalJSON 超时时间写成 "10s" 这样的字符串
func (r RemoteConfig) MarshalJSON() ([]byte, error) {
	type plain RemoteConfig
	return json.Marshal(struct {
		plain
		Timeout string `json:"timeout"`
	}{plain(r), r.Timeout.String()})
}

// UnmarshalJSON 超时时间接受时长字符串，也兼容旧版写入的纳秒数
func (r *RemoteConfig) UnmarshalJSON(data []byte) error {
	type plain RemoteConfig
	aux := struct {
		*plain
		Timeout json.RawMessage `json:"timeout"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Timeout) == 0 || string(aux.Timeout) == "null" {
		return nil
	}

	var text string
	if err := json.Unmarshal(aux.Timeout, &text); err == nil {
		d, err := time.ParseDuration(text)
		if err != nil {
			return fmt.Errorf("无效的超时时间 %q: %w", text, err)
		}
		r.Timeout = d
		return nil
	}
	var nanos int64
	if err := json.Unmarshal(aux.Timeout, &nanos); err != nil {
		return fmt.Errorf("无效的超时时间 %s", aux.Timeout)
	}
	r.Timeout = time.Duration(nanos)
	return nil
}

// MySQLConfig MySQL数据库配置
type MySQLConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
}

// SQLiteConfig SQLite配置
type SQLiteConfig struct {
	Path string `json:"path" yaml:"path"`
}

// PostgresConfig PostgreSQL配置
type PostgresConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
	SSLMode  string `json:"sslMode" yaml:"sslMode"`
	// DSN 非空时直接使用，忽略上面的字段
	DSN string `json:"dsn" yaml:"dsn"`
}

// AppConfig 应用配置
type AppConfig struct {
	Storage     StorageConfig `json:"storage" yaml:"storage"`
	LogLevel    string        `json:"logLevel" yaml:"logLevel"`
	MetricsAddr string        `json:"metricsAddr" yaml:"metricsAddr"`
}

// DefaultPath 默认配置文件路径
func DefaultPath() string {
	return filepath.Join(appDir(), "config.json")
}

func appDir() string {
	appDataDir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(appDataDir, appDirName)
}

// Load 读取配置文件，文件不存在时返回默认配置
func Load(path string) (*AppConfig, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	cfg.fillDefaults()
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save 保存配置，按扩展名选择格式
func Save(path string, cfg *AppConfig) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Default 默认配置
func Default() *AppConfig {
	dir := appDir()
	return &AppConfig{
		Storage: StorageConfig{
			Type:        StorageTypeLocal,
			LocalPath:   filepath.Join(dir, "localstorage.json"),
			StorageKey:  DefaultStorageKey,
			CatalogPath: filepath.Join(dir, "listings.json"),
			Remote: RemoteConfig{
				BaseURL:         DefaultBaseURL,
				Timeout:         10 * time.Second,
				RefetchOnFilter: true,
			},
			MySQL: MySQLConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Password: "",
				Database: "shortlist",
			},
			SQLite: SQLiteConfig{
				Path: filepath.Join(dir, "shortlist.db"),
			},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "shortlist",
				Password: "shortlist",
				Database: "shortlist",
				SSLMode:  "disable",
			},
		},
		LogLevel: "info",
	}
}

// 补齐配置文件中缺省的字段
func (c *AppConfig) fillDefaults() {
	def := Default()
	if c.Storage.Type == "" {
		c.Storage.Type = def.Storage.Type
	}
	if c.Storage.LocalPath == "" {
		c.Storage.LocalPath = def.Storage.LocalPath
	}
	if c.Storage.StorageKey == "" {
		c.Storage.StorageKey = def.Storage.StorageKey
	}
	if c.Storage.CatalogPath == "" {
		c.Storage.CatalogPath = def.Storage.CatalogPath
	}
	if c.Storage.Remote.BaseURL == "" {
		c.Storage.Remote.BaseURL = def.Storage.Remote.BaseURL
	}
	if c.Storage.Remote.Timeout <= 0 {
		c.Storage.Remote.Timeout = def.Storage.Remote.Timeout
	}
	if c.Storage.SQLite.Path == "" {
		c.Storage.SQLite.Path = def.Storage.SQLite.Path
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// 环境变量优先于配置文件
func (c *AppConfig) applyEnvOverrides() {
	if v := os.Getenv("SHORTLIST_STORAGE"); v != "" {
		c.Storage.Type = StorageType(strings.ToLower(v))
	}
	if v := os.Getenv("SHORTLIST_API_URL"); v != "" {
		c.Storage.Remote.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("SHORTLIST_DSN"); v != "" {
		c.Storage.Postgres.DSN = v
	}
}

// Validate 检查存储类型是否受支持
func (c *StorageConfig) Validate() error {
	for _, t := range StorageTypes {
		if c.Type == t {
			return nil
		}
	}
	return fmt.Errorf("不支持的存储类型: %s", c.Type)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

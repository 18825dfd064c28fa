package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SpreadsheetPath string `yaml:"spreadsheet_path"`
	DirectoryCSV    string `yaml:"directory_csv"`

	// TargetKeys select which ranked-column categories feed the daily
	// enrichment (quotes, industry, news).
	TargetKeys []string `yaml:"target_keys"`

	HTTP struct {
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		UserAgent      string `yaml:"user_agent"`
	} `yaml:"http"`

	Cache struct {
		QuoteMinutes  int `yaml:"quote_minutes"`
		NewsMinutes   int `yaml:"news_minutes"`
		IndustryHours int `yaml:"industry_hours"`
	} `yaml:"cache"`

	News struct {
		MaxKeywords  int      `yaml:"max_keywords"`
		MaxItems     int      `yaml:"max_items"`
		LookbackDays int      `yaml:"lookback_days"`
		Sources      []string `yaml:"sources"`
	} `yaml:"news"`
}

func (c *Config) Validate() error {
	if c.SpreadsheetPath == "" {
		return fmt.Errorf("spreadsheet_path cannot be empty")
	}
	if c.DirectoryCSV == "" {
		return fmt.Errorf("directory_csv cannot be empty")
	}
	if c.HTTP.TimeoutSeconds <= 0 || c.HTTP.TimeoutSeconds > 60 {
		return fmt.Errorf("http.timeout_seconds must be between 1-60, got %d", c.HTTP.TimeoutSeconds)
	}
	if c.News.MaxKeywords <= 0 {
		return fmt.Errorf("news.max_keywords must be positive, got %d", c.News.MaxKeywords)
	}
	if c.News.MaxItems <= 0 {
		return fmt.Errorf("news.max_items must be positive, got %d", c.News.MaxItems)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if len(c.TargetKeys) == 0 {
		c.TargetKeys = []string{"上班族", "老闆", "TOP30"}
	}
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = 5
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if c.Cache.QuoteMinutes == 0 {
		c.Cache.QuoteMinutes = 10
	}
	if c.Cache.NewsMinutes == 0 {
		c.Cache.NewsMinutes = 10
	}
	if c.Cache.IndustryHours == 0 {
		c.Cache.IndustryHours = 24
	}
	if c.News.MaxKeywords == 0 {
		c.News.MaxKeywords = 15
	}
	if c.News.MaxItems == 0 {
		c.News.MaxItems = 20
	}
	if c.News.LookbackDays == 0 {
		c.News.LookbackDays = 30
	}
	if len(c.News.Sources) == 0 {
		c.News.Sources = []string{"鉅亨網", "cnyes"}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
	"time"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"ProgJuliaBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:""`
	} `yaml:"mongo"`
	Redis struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"6379"`
		Password string `yaml:"password" env-default:""`
		DB       int    `yaml:"db" env-default:"0"`
		Prefix   string `yaml:"prefix" env-default:"prog-julia:lock:"`
	} `yaml:"redis"`
	Google struct {
		RedirectURL  string `yaml:"redirect_url" env-default:""`
		CourseRange  string `yaml:"course_range" env-default:"!A1:F500"`
		AnswersRange string `yaml:"answers_range" env-default:"!A1:C500"`
	} `yaml:"google"`
	Admin struct {
		SessionTimeout    time.Duration `yaml:"session_timeout" env-default:"20m"`
		CleanupInterval   time.Duration `yaml:"cleanup_interval" env-default:"1m"`
		FrontendURL       string        `yaml:"frontend_url" env-default:"https://prog.academy"`
		BroadcastPageSize int           `yaml:"broadcast_page_size" env-default:"100"`
		InviteDays        int           `yaml:"invite_days" env-default:"30"`
		MaxFileSize       int64         `yaml:"max_file_size" env-default:"1048576"`
		UploadTimeout     time.Duration `yaml:"upload_timeout" env-default:"10m"`
	} `yaml:"admin"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9100"`
		ApiKey string `yaml:"key" env-default:""`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}

package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Mode != "debug" {
		t.Errorf("server.mode = %q, want debug", cfg.Server.Mode)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("server.address = %q, want :8080", cfg.Server.Address)
	}
	if cfg.Database.Archive.Dialect != "sqlite" {
		t.Errorf("archive.dialect = %q, want sqlite", cfg.Database.Archive.Dialect)
	}
	if cfg.App.CharacterA != "mio" || cfg.App.CharacterB != "yuki" {
		t.Errorf("默认角色 = %q/%q, want mio/yuki", cfg.App.CharacterA, cfg.App.CharacterB)
	}
	if got := cfg.App.CycleOffset(); got != 5*time.Hour {
		t.Errorf("周期日偏移 = %v, want 5h", got)
	}
	if cfg.App.VoiceMaxSeconds != 120 {
		t.Errorf("voiceMaxSeconds = %d, want 120", cfg.App.VoiceMaxSeconds)
	}
	if cfg.App.VoiceMaxBytes != 2*1024*1024 {
		t.Errorf("voiceMaxBytes = %d, want 2MiB", cfg.App.VoiceMaxBytes)
	}
	if cfg.App.JoinedNoticeSeconds != 4 || cfg.App.OnlineNoticeSeconds != 15 || cfg.App.OfflineNoticeSeconds != 4 {
		t.Errorf("通知时长默认值错误: %d/%d/%d",
			cfg.App.JoinedNoticeSeconds, cfg.App.OnlineNoticeSeconds, cfg.App.OfflineNoticeSeconds)
	}
}

func TestLoadConfigRejectsIdenticalCharacters(t *testing.T) {
	t.Setenv("APP_CHARACTERB", "mio")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("两位角色同名时应报错")
	}
}

func TestPartnerOf(t *testing.T) {
	app := AppConfig{CharacterA: "mio", CharacterB: "yuki"}

	tests := []struct {
		character string
		want      string
		wantErr   bool
	}{
		{"mio", "yuki", false},
		{"yuki", "mio", false},
		{"stranger", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := app.PartnerOf(tt.character)
		if tt.wantErr {
			if err == nil {
				t.Errorf("PartnerOf(%q) 应报错", tt.character)
			}
			continue
		}
		if err != nil {
			t.Errorf("PartnerOf(%q): %v", tt.character, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PartnerOf(%q) = %q, want %q", tt.character, got, tt.want)
		}
	}
}

func TestIsCharacter(t *testing.T) {
	app := AppConfig{CharacterA: "mio", CharacterB: "yuki"}
	if !app.IsCharacter("mio") || !app.IsCharacter("yuki") {
		t.Error("两位角色都应合法")
	}
	if app.IsCharacter("stranger") || app.IsCharacter("") {
		t.Error("未知标识不应合法")
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// TestConfigValidate_RejectsMissingRoot는 테스트 코드 동작을 검증하거나 보조합니다.
func TestConfigValidate_RejectsMissingRoot(t *testing.T) {
	// 존재하지 않는 root는 InvalidRootError로 반환되어야 한다.
	missing := filepath.Join(t.TempDir(), "missing")
	cfg := &Config{Root: missing}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	var rootErr *InvalidRootError
	if !errors.As(err, &rootErr) {
		t.Fatalf("expected InvalidRootError, got %T", err)
	}
	if rootErr.Path != missing {
		t.Fatalf("expected path %s, got %s", missing, rootErr.Path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

// TestConfigValidate_RejectsFileRoot는 테스트 코드 동작을 검증하거나 보조합니다.
func TestConfigValidate_RejectsFileRoot(t *testing.T) {
	// root가 파일이면 "<path> is not a valid directory" 에러여야 한다.
	filePath := filepath.Join(t.TempDir(), "photo.jpg")
	if err := os.WriteFile(filePath, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	err := (&Config{Root: filePath}).Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if err.Error() != filePath+" is not a valid directory" {
		t.Fatalf("unexpected error message: %s", err.Error())
	}
}

// TestConfigValidate_FillsDefaults는 테스트 코드 동작을 검증하거나 보조합니다.
func TestConfigValidate_FillsDefaults(t *testing.T) {
	// 기본값 자동 보정(root/extensions)이 적용되어야 한다.
	cfg := &Config{}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if cfg.Root != "." {
		t.Fatalf("expected root '.', got %s", cfg.Root)
	}
	if !reflect.DeepEqual(cfg.IncludeExtensions, []string{"jpg", "jpeg"}) {
		t.Fatalf("unexpected extensions: %v", cfg.IncludeExtensions)
	}
}

// TestDefaultConfig_SafeDefaults는 테스트 코드 동작을 검증하거나 보조합니다.
func TestDefaultConfig_SafeDefaults(t *testing.T) {
	// 기본 설정은 force/recursive/verify 모두 꺼져 있어야 한다.
	cfg := DefaultConfig()
	if cfg.ForceUpdate || cfg.Recursive || cfg.Verify || cfg.LogJSON {
		t.Fatalf("unexpected default flags: %+v", cfg)
	}
	if cfg.LogFile != "" {
		t.Fatalf("expected console-only logging by default, got %s", cfg.LogFile)
	}
}

// TestLoadFromFile_ReadsYAMLIntoConfig는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLoadFromFile_ReadsYAMLIntoConfig(t *testing.T) {
	// YAML 파일 로드 시 명시 필드가 Config에 반영되고 나머지는 기본값이어야 한다.
	yamlContent := strings.Join([]string{
		"root: /data/photos",
		"force_update: true",
		"recursive: true",
		"log_json: true",
	}, "\n")

	filePath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(filePath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(filePath)
	if err != nil {
		t.Fatalf("load from file failed: %v", err)
	}
	if cfg.Root != "/data/photos" || !cfg.ForceUpdate || !cfg.Recursive || !cfg.LogJSON {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.IncludeExtensions, []string{"jpg", "jpeg"}) {
		t.Fatalf("expected default extensions, got %v", cfg.IncludeExtensions)
	}
}

// TestLoadFromFile_ReturnsReadError는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLoadFromFile_ReturnsReadError(t *testing.T) {
	// 존재하지 않는 설정 파일은 read 에러를 반환해야 한다.
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected read error for missing config file")
	}
}

// TestLoadFromFile_ReturnsYAMLParseError는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLoadFromFile_ReturnsYAMLParseError(t *testing.T) {
	// 잘못된 YAML 문법은 unmarshal 에러를 반환해야 한다.
	filePath := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(filePath, []byte("root: ["), 0644); err != nil {
		t.Fatalf("failed to write broken yaml: %v", err)
	}

	_, err := LoadFromFile(filePath)
	if err == nil {
		t.Fatal("expected yaml parse error")
	}
}

// TestValidationError_ErrorFormat는 테스트 코드 동작을 검증하거나 보조합니다.
func TestValidationError_ErrorFormat(t *testing.T) {
	// ValidationError.Error()는 "field: message" 형식을 반환해야 한다.
	err := (&ValidationError{Field: "root", Message: "is required"}).Error()
	if err != "root: is required" {
		t.Fatalf("unexpected validation error format: %s", err)
	}

	ve := (&InvalidRootError{Path: "/x"}).AsValidationError()
	if ve.Field != "root" || ve.Message != "/x is not a valid directory" {
		t.Fatalf("unexpected mapped validation error: %+v", ve)
	}
}

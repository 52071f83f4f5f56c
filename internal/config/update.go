package config

import (
	"fmt"
)

// applyUpdate maps a management API field name onto the config struct.
// Only fields that are safe to change at runtime are updatable.
func applyUpdate(c *FileConfig, key string, value any) error {
	switch key {
	case "debug":
		return setBoolField(&c.Debug, key, value)
	case "chunk_budget":
		return setIntField(&c.ChunkBudget, key, value)
	case "max_upload_mb":
		return setIntField(&c.MaxUploadMB, key, value)
	case "history_limit":
		return setIntField(&c.HistoryLimit, key, value)
	case "default_model":
		return setStringField(&c.DefaultModel, key, value)
	case "default_target_lang":
		return setStringField(&c.DefaultTargetLang, key, value)
	case "default_tone":
		return setStringField(&c.DefaultTone, key, value)
	case "gemini_api_key":
		return setStringField(&c.GeminiAPIKey, key, value)
	case "retry_max":
		return setIntField(&c.RetryMax, key, value)
	case "rate_limit_enabled":
		return setBoolField(&c.RateLimitEnabled, key, value)
	case "rate_limit_rps":
		return setIntField(&c.RateLimitRPS, key, value)
	case "rate_limit_burst":
		return setIntField(&c.RateLimitBurst, key, value)
	default:
		return fmt.Errorf("unknown or immutable config field %q", key)
	}
}

func setStringField(dst *string, key string, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %q expects a string", key)
	}
	*dst = s
	return nil
}

func setBoolField(dst *bool, key string, value any) error {
	b, ok := value.(bool)
	if !ok {
		return fmt.Errorf("field %q expects a boolean", key)
	}
	*dst = b
	return nil
}

func setIntField(dst *int, key string, value any) error {
	// JSON numbers decode as float64.
	switch v := value.(type) {
	case int:
		*dst = v
	case float64:
		*dst = int(v)
	default:
		return fmt.Errorf("field %q expects a number", key)
	}
	return nil
}

package config

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CheckManagementKey validates a presented management key against the
// configured bcrypt hash, or the plain key when no hash is set. With neither
// configured, management endpoints are closed.
func CheckManagementKey(cfg *FileConfig, presented string) bool {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return false
	}
	if hash := strings.TrimSpace(cfg.ManagementKeyHash); hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(presented)) == nil
	}
	if key := cfg.ManagementKey; key != "" {
		return subtle.ConstantTimeCompare([]byte(key), []byte(presented)) == 1
	}
	return false
}

package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/radiolab/OpenRadioCore/internal/config"
	"github.com/radiolab/OpenRadioCore/internal/storage"
)

type Permission string

const (
	PermOperator Permission = "operator"
	PermAdmin    Permission = "admin"
)

// AuthService authenticates clients. Two credential kinds exist: machine
// tokens (random, stored hashed, created over the API) and short-lived JWT
// access tokens obtained by exchanging a machine token. A bootstrap secret
// from the config, stored as an Argon2id hash, grants admin before any
// machine token exists.
type AuthService struct {
	storage         *storage.PostgresClient
	jwtHandler      *JWTHandler
	secretHasher    *SecretHasher
	machineTokenGen *MachineTokenGenerator
	bootstrapHash   string
	enabled         bool
}

func NewAuthService(store *storage.PostgresClient, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		storage:         store,
		jwtHandler:      NewJWTHandler(cfg.GetJWTSecret(), cfg.AccessTokenTTL),
		secretHasher:    NewSecretHasher(),
		machineTokenGen: NewMachineTokenGenerator(),
		bootstrapHash:   cfg.BootstrapSecretHash,
		enabled:         cfg.Enabled,
	}
}

// Enabled reports whether authentication is enforced.
func (a *AuthService) Enabled() bool { return a.enabled }

// ExchangeToken trades a machine token (or the bootstrap secret) for a JWT
// access token.
func (a *AuthService) ExchangeToken(ctx context.Context, machineToken, ipAddress string) (string, error) {
	id, name, permissions, err := a.resolveMachineToken(ctx, machineToken, ipAddress)
	if err != nil {
		return "", err
	}
	return a.jwtHandler.GenerateAccessToken(id, name, permissionsToRole(permissions))
}

// ValidateMachineToken validates a machine token and returns its permissions.
func (a *AuthService) ValidateMachineToken(ctx context.Context, token, ipAddress string) ([]Permission, error) {
	_, _, permissions, err := a.resolveMachineToken(ctx, token, ipAddress)
	return permissions, err
}

func (a *AuthService) resolveMachineToken(ctx context.Context, token, ipAddress string) (uuid.UUID, string, []Permission, error) {
	if a.storage != nil && a.machineTokenGen.ValidateTokenFormat(token) {
		tokenHash := a.machineTokenGen.HashToken(token)
		machineToken, err := a.storage.GetMachineTokenByHash(ctx, tokenHash)
		if err != nil {
			a.logAuthEvent(ctx, "machine_token_failed", nil, ipAddress, false, "token not found")
			return uuid.Nil, "", nil, fmt.Errorf("invalid token")
		}

		a.storage.UpdateMachineTokenLastUsed(ctx, machineToken.ID)
		a.logAuthEvent(ctx, "machine_token_success", &machineToken.ID, ipAddress, true, "")

		permissions := make([]Permission, len(machineToken.Permissions))
		for i, p := range machineToken.Permissions {
			permissions[i] = Permission(p)
		}
		return machineToken.ID, machineToken.Name, permissions, nil
	}

	// Not a machine token; it may be the bootstrap secret.
	if a.bootstrapHash != "" {
		ok, err := a.secretHasher.VerifySecret(token, a.bootstrapHash)
		if err == nil && ok {
			a.logAuthEvent(ctx, "bootstrap_secret_success", nil, ipAddress, true, "")
			return uuid.Nil, "bootstrap", []Permission{PermOperator, PermAdmin}, nil
		}
	}

	a.logAuthEvent(ctx, "machine_token_failed", nil, ipAddress, false, "invalid format")
	return uuid.Nil, "", nil, fmt.Errorf("invalid token")
}

// ValidateToken validates any token (JWT or Machine Token)
func (a *AuthService) ValidateToken(ctx context.Context, token, ipAddress string) ([]Permission, error) {
	// Try JWT first
	if claims, err := a.jwtHandler.ValidateAccessToken(token); err == nil {
		return a.roleToPermissions(claims.Role), nil
	}

	// Try Machine Token
	return a.ValidateMachineToken(ctx, token, ipAddress)
}

func (a *AuthService) roleToPermissions(role string) []Permission {
	switch role {
	case "admin":
		return []Permission{PermOperator, PermAdmin}
	default:
		return []Permission{PermOperator}
	}
}

func permissionsToRole(permissions []Permission) string {
	for _, p := range permissions {
		if p == PermAdmin {
			return "admin"
		}
	}
	return "operator"
}

func (a *AuthService) logAuthEvent(ctx context.Context, eventType string, machineTokenID *uuid.UUID, ip string, success bool, reason string) {
	if a.storage == nil {
		return
	}
	_ = a.storage.LogAuthEvent(ctx, eventType, machineTokenID, ip, success, reason)
}

// CreateMachineToken creates a new machine token. The plaintext token is
// returned exactly once; only the hash is stored.
func (a *AuthService) CreateMachineToken(ctx context.Context, name string, permissions []string) (string, *storage.MachineToken, error) {
	if a.storage == nil {
		return "", nil, fmt.Errorf("machine tokens require the database")
	}

	token, tokenHash, err := a.machineTokenGen.GenerateMachineToken()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	machineToken, err := a.storage.CreateMachineToken(ctx, tokenHash, name, permissions)
	if err != nil {
		return "", nil, fmt.Errorf("failed to store token: %w", err)
	}

	a.logAuthEvent(ctx, "machine_token_created", &machineToken.ID, "", true, "")
	return token, machineToken, nil
}

// ListMachineTokens returns all machine tokens (without token values)
func (a *AuthService) ListMachineTokens(ctx context.Context) ([]*storage.MachineToken, error) {
	if a.storage == nil {
		return nil, fmt.Errorf("machine tokens require the database")
	}
	return a.storage.ListMachineTokens(ctx)
}

// DeleteMachineToken deletes a machine token
func (a *AuthService) DeleteMachineToken(ctx context.Context, tokenID uuid.UUID) error {
	if a.storage == nil {
		return fmt.Errorf("machine tokens require the database")
	}
	return a.storage.DeleteMachineToken(ctx, tokenID)
}

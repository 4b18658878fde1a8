// Package casdoor backs the user directory with the Casdoor identity
// provider. The platform never writes users: accounts are provisioned
// in Casdoor and read here, with a Redis cache in front to keep
// directory lookups off the request path.
package casdoor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/redis/go-redis/v9"

	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

type UserCasdoor struct {
	client *casdoorsdk.Client
	redis  *redis.Client

	cachePrefix string
	cacheTTL    time.Duration
}

func NewUserCasdoor(config CasdoorConfig, redisClient *redis.Client) repositories.UserRepository {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &UserCasdoor{
		client:      client,
		redis:       redisClient,
		cachePrefix: "user:",
		cacheTTL:    15 * time.Minute,
	}
}

func (u *UserCasdoor) getCacheKey(key string) string {
	return u.cachePrefix + key
}

func (u *UserCasdoor) getUserFromCache(ctx context.Context, key string) (*models.User, error) {
	if u.redis == nil {
		return nil, nil
	}

	data, err := u.redis.Get(ctx, u.getCacheKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user: %w", err)
	}
	return &user, nil
}

func (u *UserCasdoor) setUserCache(ctx context.Context, key string, user *models.User) {
	if u.redis == nil {
		return
	}

	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	u.redis.Set(ctx, u.getCacheKey(key), data, u.cacheTTL)
}

// convertCasdoorUser maps a Casdoor account onto the platform's user
// model.
func (u *UserCasdoor) convertCasdoorUser(casdoorUser *casdoorsdk.User) *models.User {
	if casdoorUser == nil {
		return nil
	}

	var createdAt, updatedAt time.Time
	if casdoorUser.CreatedTime != "" {
		createdAt, _ = time.Parse(time.RFC3339, casdoorUser.CreatedTime)
	}
	if casdoorUser.UpdatedTime != "" {
		updatedAt, _ = time.Parse(time.RFC3339, casdoorUser.UpdatedTime)
	}

	return &models.User{
		ID:            casdoorUser.Id,
		Username:      casdoorUser.Name,
		Email:         casdoorUser.Email,
		Role:          u.roleFromCasdoor(casdoorUser),
		EmailVerified: casdoorUser.EmailVerified,
		Approved:      !casdoorUser.IsForbidden,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

// roleFromCasdoor picks the platform role from Casdoor role
// assignments. Accounts with no recognized role default to STUDENT.
func (u *UserCasdoor) roleFromCasdoor(casdoorUser *casdoorsdk.User) models.UserRole {
	for _, role := range casdoorUser.Roles {
		switch strings.ToLower(role.Name) {
		case "professor", "teacher", "instructor":
			return models.RoleProfessor
		case "alumni", "graduate":
			return models.RoleAlumni
		case "student":
			return models.RoleStudent
		}
	}
	return models.RoleStudent
}

// GetByID retrieves a user by Casdoor ID, cache first.
func (u *UserCasdoor) GetByID(ctx context.Context, id string) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	if cached, err := u.getUserFromCache(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	casdoorUser, err := u.client.GetUserByUserId(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user not found with id %s", id)
	}

	user := u.convertCasdoorUser(casdoorUser)
	u.setUserCache(ctx, cacheKey, user)
	u.setUserCache(ctx, fmt.Sprintf("email:%s", user.Email), user)
	return user, nil
}

// GetByEmail retrieves a user by email, cache first.
func (u *UserCasdoor) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	cacheKey := fmt.Sprintf("email:%s", email)
	if cached, err := u.getUserFromCache(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	casdoorUser, err := u.client.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email from casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user not found with email %s", email)
	}

	user := u.convertCasdoorUser(casdoorUser)
	u.setUserCache(ctx, cacheKey, user)
	u.setUserCache(ctx, fmt.Sprintf("id:%s", user.ID), user)
	return user, nil
}

// GetByEmails resolves a batch of emails, skipping addresses unknown to
// the directory. Assessment assignment tolerates not-yet-provisioned
// students.
func (u *UserCasdoor) GetByEmails(ctx context.Context, emails []string) ([]*models.User, error) {
	users := make([]*models.User, 0, len(emails))
	for _, email := range emails {
		user, err := u.GetByEmail(ctx, email)
		if err != nil {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// ListByRole lists directory users holding one platform role.
func (u *UserCasdoor) ListByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	casdoorUsers, err := u.client.GetUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users from casdoor: %w", err)
	}

	var users []*models.User
	for _, cu := range casdoorUsers {
		user := u.convertCasdoorUser(cu)
		if user != nil && user.Role == role {
			users = append(users, user)
		}
	}
	return users, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storepos/internal/common"
	"storepos/internal/models"
	"storepos/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionIssuer = "storepos"

// SessionClaims bind a token to one tenant alias and role.
type SessionClaims struct {
	TenantID   string  `json:"tenant_id"`
	Code       string  `json:"code"`
	Role       string  `json:"role"`
	EmployeeID *string `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}

type Session struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Role      string        `json:"role"`
	Actor     *models.Actor `json:"-"`
}

type SessionService interface {
	// Resolve identifies the caller from a manager code and an optional
	// employee id. Without an employee id the caller is the manager.
	Resolve(ctx context.Context, code string, employeeID *uuid.UUID) (*models.Actor, error)
	Issue(ctx context.Context, code string, employeeID *uuid.UUID) (*Session, error)
	// ResolveToken validates token and re-checks it against current state.
	ResolveToken(ctx context.Context, token string) (*models.Actor, error)
}

type sessionService struct {
	tenantRepo   repositories.TenantRepository
	employeeRepo repositories.EmployeeRepository
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewSessionService(tenantRepo repositories.TenantRepository, employeeRepo repositories.EmployeeRepository, secret string, ttl time.Duration) SessionService {
	return &sessionService{
		tenantRepo:   tenantRepo,
		employeeRepo: employeeRepo,
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
	}
}

func (s *sessionService) Resolve(ctx context.Context, code string, employeeID *uuid.UUID) (*models.Actor, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, common.ErrManagerCodeRequired
	}
	tenant, err := s.tenantRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.actorFor(ctx, tenant, employeeID)
}

func (s *sessionService) actorFor(ctx context.Context, tenant *models.Tenant, employeeID *uuid.UUID) (*models.Actor, error) {
	if employeeID == nil {
		return &models.Actor{Tenant: tenant, Role: models.RoleManager}, nil
	}
	employee, err := s.employeeRepo.GetByID(ctx, tenant.ID, *employeeID)
	if err != nil {
		return nil, err
	}
	if employee.Status != models.EmployeeStatusApproved {
		return nil, common.ErrEmployeeNotApproved
	}
	return &models.Actor{Tenant: tenant, Role: models.RoleFromPermission(employee.Permissions), Employee: employee}, nil
}

func (s *sessionService) Issue(ctx context.Context, code string, employeeID *uuid.UUID) (*Session, error) {
	actor, err := s.Resolve(ctx, code, employeeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := SessionClaims{
		TenantID: actor.Tenant.ID.String(),
		Code:     actor.Tenant.Code,
		Role:     actor.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   actor.Tenant.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	if actor.Employee != nil {
		id := actor.Employee.ID.String()
		claims.EmployeeID = &id
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, Role: actor.Role.String(), Actor: actor}, nil
}

func (s *sessionService) ResolveToken(ctx context.Context, token string) (*models.Actor, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, common.ErrInvalidSession
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, common.ErrInvalidSession
	}
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if common.IsKind(err, common.KindNotFound) {
		return nil, common.ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}
	// A rotated code revokes every token issued for the old one.
	if tenant.Code != claims.Code {
		return nil, common.ErrInvalidSession
	}

	var employeeID *uuid.UUID
	if claims.EmployeeID != nil {
		id, err := uuid.Parse(*claims.EmployeeID)
		if err != nil {
			return nil, common.ErrInvalidSession
		}
		employeeID = &id
	}
	actor, err := s.actorFor(ctx, tenant, employeeID)
	if errors.Is(err, common.ErrEmployeeNotFound) {
		return nil, common.ErrInvalidSession
	}
	return actor, err
}

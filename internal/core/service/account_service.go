package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
	"github.com/wavenet-solutions/invoice-api/internal/core/ports"
)

// AccountService is the authorization engine: every account mutation and
// visibility query goes through its role checks. It never touches the store
// except through the repository.
type AccountService struct {
	repo        ports.AccountRepository
	invoiceRepo ports.InvoiceRepository
	tokens      ports.TokenService
	audit       ports.AuditRecorder
	log         zerolog.Logger
}

func NewAccountService(
	repo ports.AccountRepository,
	invoiceRepo ports.InvoiceRepository,
	tokens ports.TokenService,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		repo:        repo,
		invoiceRepo: invoiceRepo,
		tokens:      tokens,
		audit:       audit,
		log:         log,
	}
}

// Signup self-registers a new account. Self-registered accounts are always
// role=user; elevated roles only exist through CreateSubordinate.
func (s *AccountService) Signup(ctx context.Context, in ports.SignupInput) (*domain.Account, error) {
	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account, err := s.repo.Create(ctx, &domain.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", account.ID).Str("email", account.Email).Msg("account registered")
	return account, nil
}

// Login authenticates by email and password. Blocked accounts pass the
// credential check but are refused a session.
func (s *AccountService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	account, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	if account.IsBlocked {
		return nil, domain.ErrAccountBlocked
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// The client optionally pins the expected role on login.
	if in.Role != "" {
		requested, ok := domain.ParseRole(in.Role)
		if !ok || requested != account.Role {
			return nil, domain.ErrRoleMismatch
		}
	}

	identity := domain.Identity{AccountID: account.ID, Email: account.Email, Role: account.Role}
	access, err := s.tokens.IssueAccessToken(identity)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(identity)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Str("role", string(account.Role)).Msg("login successful")
	return &ports.LoginResult{Account: account, AccessToken: access, RefreshToken: refresh}, nil
}

// CreateSubordinate creates an account on behalf of an admin or unit
// manager. The created role never exceeds the creator's: unit managers may
// only create plain users.
func (s *AccountService) CreateSubordinate(ctx context.Context, actor domain.Identity, in ports.CreateSubordinateInput) (*domain.Account, error) {
	if actor.Role != domain.RoleTopAdmin && actor.Role != domain.RoleAdmin && actor.Role != domain.RoleUnitManager {
		return nil, fmt.Errorf("%w: only admins and unit managers can create accounts", domain.ErrForbidden)
	}

	role := domain.RoleUser
	if in.Role != "" {
		parsed, ok := domain.ParseRole(in.Role)
		if !ok || !parsed.Assignable() {
			return nil, domain.ErrInvalidRole
		}
		role = parsed
	}
	if !actor.Role.CanCreate(role) {
		return nil, fmt.Errorf("%w: unit managers can only create accounts with user role", domain.ErrForbidden)
	}

	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account, err := s.repo.Create(ctx, &domain.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedBy:    actor.AccountID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		ActorID:   actor.AccountID,
		ActorRole: actor.Role,
		Action:    domain.AuditAccountCreate,
		TargetID:  account.ID,
		Detail:    string(role),
		Timestamp: now,
	})
	s.log.Info().
		Str("creator_id", actor.AccountID).
		Str("account_id", account.ID).
		Str("role", string(role)).
		Msg("subordinate account created")
	return account, nil
}

// ListAll returns every account below topAdmin.
func (s *AccountService) ListAll(ctx context.Context) ([]*domain.Account, error) {
	return s.repo.ListNonTopAdmin(ctx)
}

// ListCreatedBy returns the accounts the actor has created, newest first.
func (s *AccountService) ListCreatedBy(ctx context.Context, actorID string) ([]*domain.Account, error) {
	return s.repo.ListByCreator(ctx, actorID)
}

// ToggleBlock flips the target's blocked flag and returns the updated
// account.
func (s *AccountService) ToggleBlock(ctx context.Context, actor domain.Identity, targetID string) (*domain.Account, error) {
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	target.IsBlocked = !target.IsBlocked
	if err := s.repo.SetBlocked(ctx, targetID, target.IsBlocked); err != nil {
		return nil, err
	}

	action := domain.AuditAccountUnblock
	if target.IsBlocked {
		action = domain.AuditAccountBlock
	}
	s.audit.Record(domain.AuditEvent{
		ActorID:   actor.AccountID,
		ActorRole: actor.Role,
		Action:    action,
		TargetID:  targetID,
		Timestamp: time.Now().UTC(),
	})
	return target, nil
}

// UpdateRole changes the target's role to one of admin, unitManager, or
// user.
func (s *AccountService) UpdateRole(ctx context.Context, actor domain.Identity, targetID, newRole string) (*domain.Account, error) {
	role, ok := domain.ParseRole(newRole)
	if !ok || !role.Assignable() {
		return nil, domain.ErrInvalidRole
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		ActorID:   actor.AccountID,
		ActorRole: actor.Role,
		Action:    domain.AuditRoleChange,
		TargetID:  targetID,
		Detail:    fmt.Sprintf("%s -> %s", target.Role, role),
		Timestamp: time.Now().UTC(),
	})
	target.Role = role
	return target, nil
}

// Delete hard-deletes an account. Accounts that still own subordinates
// cannot be deleted; otherwise the account's invoices and peer links are
// cleaned up first so no visibility query is left pointing at a ghost.
func (s *AccountService) Delete(ctx context.Context, actor domain.Identity, targetID string) error {
	if _, err := s.repo.FindByID(ctx, targetID); err != nil {
		return err
	}

	children, err := s.repo.CountByCreator(ctx, targetID)
	if err != nil {
		return err
	}
	if children > 0 {
		return domain.ErrHasSubordinates
	}

	if err := s.invoiceRepo.DeleteByCreator(ctx, targetID); err != nil {
		return fmt.Errorf("delete invoices: %w", err)
	}
	if err := s.repo.DetachPeers(ctx, targetID); err != nil {
		return fmt.Errorf("detach peers: %w", err)
	}
	if err := s.repo.Delete(ctx, targetID); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		ActorID:   actor.AccountID,
		ActorRole: actor.Role,
		Action:    domain.AuditAccountDelete,
		TargetID:  targetID,
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Str("actor_id", actor.AccountID).Str("account_id", targetID).Msg("account deleted")
	return nil
}

func (s *AccountService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return domain.ErrEmailExists
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}
	return nil
}

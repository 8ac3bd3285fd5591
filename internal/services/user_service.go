package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jcastellanos/prestamos-api/internal/models"
	"github.com/jcastellanos/prestamos-api/internal/repository"
)

// UserService handles user-related business logic
type UserService struct {
	repo         repository.UserRepository
	emailService *EmailService
	auditSvc     *AuditService
}

func NewUserService(repo repository.UserRepository, emailService *EmailService, auditSvc *AuditService) *UserService {
	return &UserService{
		repo:         repo,
		emailService: emailService,
		auditSvc:     auditSvc,
	}
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *UserService) Create(ctx context.Context, user *models.User, password string, actorID uint) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: ya existe un usuario con este nombre de usuario", ErrDuplicate)
		}
		return err
	}
	// Welcome email is best-effort; error is logged inside SendAccountCreated
	_ = s.emailService.SendAccountCreated(ctx, user)
	return s.auditSvc.Log(ctx, actorID, AuditActionCreate, "User", user.ID,
		fmt.Sprintf("Usuario creado: %s - Rol: %s", user.Username, user.Role), "", "")
}

func (s *UserService) Update(ctx context.Context, user *models.User, actorID uint) error {
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, AuditActionUpdate, "User", user.ID,
		fmt.Sprintf("Usuario actualizado: %s", user.Username), "", "")
}

// Delete removes a user account. The last active admin cannot be deleted,
// the system would become unmanageable.
func (s *UserService) Delete(ctx context.Context, id uint, actorID uint) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	if user.IsAdmin() {
		admins, err := s.repo.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return fmt.Errorf("%w: no se puede eliminar el último administrador", ErrUnauthorized)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, AuditActionDelete, "User", id,
		fmt.Sprintf("Usuario eliminado: %s", user.Username), "", "")
}

// ToggleActive flips the active flag of a user account
func (s *UserService) ToggleActive(ctx context.Context, id uint, actorID uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	user.Active = !user.Active
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.auditSvc.Log(ctx, actorID, AuditActionUpdate, "User", id,
		fmt.Sprintf("Cuenta %s: activa=%t", user.Username, user.Active), "", "")
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string, actorID uint) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return ErrNotFound
	}
	if !VerifyPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidPassword
	}
	hashedPassword, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "CHANGE_PASSWORD", "User", userID,
		"Contraseña actualizada por el usuario", "", "")
}

// ForceChangePassword resets a password without checking the current one.
// Admin only, the handler enforces the role.
func (s *UserService) ForceChangePassword(ctx context.Context, userID uint, newPassword string, actorID uint) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return ErrNotFound
	}
	hashedPassword, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "FORCE_CHANGE_PASSWORD", "User", userID,
		"Contraseña restablecida por administrador", "", "")
}

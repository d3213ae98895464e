package users

import (
	"net/mail"
	"strings"
	"time"

	"github.com/labvotodev-ia/labvoto-back/apperrors"
)

// ErrUsuarioInativo marks authentication against an account that exists but
// has been deactivated. The API maps it to 403 instead of 401.
var ErrUsuarioInativo = apperrors.Auth("usuário inativo")

// User is the stored account record. SenhaHash is the bcrypt hash of the
// user's password; the plaintext never reaches this package's storage.
type User struct {
	ID           int64
	NomeCompleto string
	Email        string
	SenhaHash    string
	Cargo        *string
	Municipio    *string
	UF           *string
	Ativo        bool
	CriadoEm     time.Time
	AtualizadoEm *time.Time
}

// PublicUser is the read model returned by the API: every stored field
// except the password hash.
type PublicUser struct {
	ID           int64      `json:"id"`
	NomeCompleto string     `json:"nome_completo"`
	Email        string     `json:"email"`
	Cargo        *string    `json:"cargo"`
	Municipio    *string    `json:"municipio"`
	UF           *string    `json:"uf"`
	Ativo        bool       `json:"ativo"`
	CriadoEm     time.Time  `json:"criado_em"`
	AtualizadoEm *time.Time `json:"atualizado_em"`
}

func (user User) Public() PublicUser {
	return PublicUser{
		ID:           user.ID,
		NomeCompleto: user.NomeCompleto,
		Email:        user.Email,
		Cargo:        user.Cargo,
		Municipio:    user.Municipio,
		UF:           user.UF,
		Ativo:        user.Ativo,
		CriadoEm:     user.CriadoEm,
		AtualizadoEm: user.AtualizadoEm,
	}
}

type NewUser struct {
	NomeCompleto string  `json:"nome_completo"`
	Email        string  `json:"email"`
	Senha        string  `json:"senha"`
	Cargo        *string `json:"cargo"`
	Municipio    *string `json:"municipio"`
	UF           *string `json:"uf"`
}

func (newUser *NewUser) Validate() error {
	if strings.TrimSpace(newUser.NomeCompleto) == "" {
		return apperrors.Validation("nome_completo é obrigatório")
	}
	if err := validateEmail(newUser.Email); err != nil {
		return err
	}
	if len(newUser.Senha) < 6 {
		return apperrors.Validation("senha deve ter no mínimo 6 caracteres")
	}
	newUser.UF = normalizeUF(newUser.UF)
	return nil
}

// UserUpdate is a partial update: nil fields are left unchanged.
type UserUpdate struct {
	NomeCompleto *string `json:"nome_completo"`
	Email        *string `json:"email"`
	Senha        *string `json:"senha"`
	Cargo        *string `json:"cargo"`
	Municipio    *string `json:"municipio"`
	UF           *string `json:"uf"`
	Ativo        *bool   `json:"ativo"`
}

func (update *UserUpdate) Validate() error {
	if update.NomeCompleto != nil && strings.TrimSpace(*update.NomeCompleto) == "" {
		return apperrors.Validation("nome_completo não pode ser vazio")
	}
	if update.Email != nil {
		if err := validateEmail(*update.Email); err != nil {
			return err
		}
	}
	if update.Senha != nil && len(*update.Senha) < 6 {
		return apperrors.Validation("senha deve ter no mínimo 6 caracteres")
	}
	update.UF = normalizeUF(update.UF)
	return nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return apperrors.Validation("email inválido")
	}
	return nil
}

func normalizeUF(uf *string) *string {
	if uf == nil {
		return nil
	}
	normalized := strings.ToUpper(strings.TrimSpace(*uf))
	return &normalized
}

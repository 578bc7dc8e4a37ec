package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/auth"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	pkgjwt "github.com/jhoicas/Inventario-ledger/pkg/jwt"
)

const (
	authTestCompany = "11111111-1111-1111-1111-111111111111"
	otherCompany    = "22222222-2222-2222-2222-222222222222"
)

// Fakes en memoria de los puertos de usuarios y empresas. Los fakes de
// ledgertest cubren el núcleo del ledger; auth se prueba con los suyos.

type fakeUserRepo struct {
	users []*entity.User
}

func (f *fakeUserRepo) Create(user *entity.User) error {
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) CountByCompany(companyID string) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

type fakeCompanyRepo struct {
	companies map[string]*entity.Company
}

func (f *fakeCompanyRepo) Create(company *entity.Company) error {
	f.companies[company.ID] = company
	return nil
}

func (f *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	return f.companies[id], nil
}

func (f *fakeCompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	out := make([]*entity.Company, 0, len(f.companies))
	for _, c := range f.companies {
		out = append(out, c)
	}
	return out, nil
}

func newAuthFixture(t *testing.T) (*auth.UseCase, *fakeUserRepo, *pkgjwt.Signer) {
	t.Helper()
	signer, err := pkgjwt.NewSigner("auth-test-secret", "inventario-ledger-test", 60)
	require.NoError(t, err)
	users := &fakeUserRepo{}
	companies := &fakeCompanyRepo{companies: map[string]*entity.Company{
		authTestCompany: {ID: authTestCompany, Name: "Comercial Andina"},
		otherCompany:    {ID: otherCompany, Name: "Distribuidora Sur"},
	}}
	return auth.NewUseCase(users, companies, signer), users, signer
}

func registerReq(email, role string) dto.RegisterRequest {
	return dto.RegisterRequest{
		CompanyID: authTestCompany,
		Email:     email,
		Password:  "contraseña-segura",
		Name:      "Operador",
		Role:      role,
	}
}

func TestRegisterUser_PrimerUsuarioDelTenantEsAdmin(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	user, err := uc.RegisterUser(registerReq("dueno@andina.cl", ""))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role,
		"el primer usuario de la empresa queda como admin")
}

func TestRegisterUser_SegundoUsuarioPorDefectoBodeguero(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	_, err := uc.RegisterUser(registerReq("dueno@andina.cl", ""))
	require.NoError(t, err)

	segundo, err := uc.RegisterUser(registerReq("operario@andina.cl", ""))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBodeguero, segundo.Role)
}

func TestRegisterUser_PrimerUsuarioPorTenant(t *testing.T) {
	// El conteo es por empresa: un admin en otro tenant no consume el cupo.
	uc, _, _ := newAuthFixture(t)

	_, err := uc.RegisterUser(registerReq("dueno@andina.cl", ""))
	require.NoError(t, err)

	in := registerReq("dueno@sur.cl", "")
	in.CompanyID = otherCompany
	user, err := uc.RegisterUser(in)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)
}

func TestRegisterUser_RolExplicitoValido(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	user, err := uc.RegisterUser(registerReq("ventas@andina.cl", entity.RoleVendedor))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, user.Role,
		"un rol explícito válido se respeta aunque sea el primer usuario")
}

func TestRegisterUser_RolDesconocido_Rechazado(t *testing.T) {
	uc, users, _ := newAuthFixture(t)

	_, err := uc.RegisterUser(registerReq("x@andina.cl", "superuser"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, users.users, "no debe crearse el usuario")
}

func TestRegisterUser_EmailDuplicadoEnTenant(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	_, err := uc.RegisterUser(registerReq("dueno@andina.cl", ""))
	require.NoError(t, err)

	_, err = uc.RegisterUser(registerReq("dueno@andina.cl", ""))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_EmpresaInexistente(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	in := registerReq("x@nadie.cl", "")
	in.CompanyID = "99999999-9999-9999-9999-999999999999"
	_, err := uc.RegisterUser(in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterUser_NormalizaEmail(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	user, err := uc.RegisterUser(registerReq("  Dueno@Andina.CL ", ""))
	require.NoError(t, err)
	assert.Equal(t, "dueno@andina.cl", user.Email)

	// El duplicado se detecta aunque cambie la capitalización.
	_, err = uc.RegisterUser(registerReq("DUENO@ANDINA.CL", ""))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_EmiteTokenConActorCompleto(t *testing.T) {
	uc, _, signer := newAuthFixture(t)

	registered, err := uc.RegisterUser(registerReq("Dueno@Andina.cl", ""))
	require.NoError(t, err)

	// Login en minúsculas contra registro con mayúsculas.
	resp, err := uc.Login(dto.LoginRequest{
		Email:    "dueno@andina.cl",
		Password: "contraseña-segura",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	actor, err := signer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, actor.UserID)
	assert.Equal(t, authTestCompany, actor.CompanyID)
	assert.Equal(t, entity.RoleAdmin, actor.Role)
}

func TestLogin_ContrasenaIncorrecta(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	_, err := uc.RegisterUser(registerReq("dueno@andina.cl", ""))
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "dueno@andina.cl", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@andina.cl", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_CuentaDeshabilitada(t *testing.T) {
	uc, users, _ := newAuthFixture(t)

	_, err := uc.RegisterUser(registerReq("dueno@andina.cl", ""))
	require.NoError(t, err)
	users.users[0].Status = entity.UserStatusDisabled

	_, err = uc.Login(dto.LoginRequest{
		Email:    "dueno@andina.cl",
		Password: "contraseña-segura",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

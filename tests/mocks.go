package tests

import (
	"context"

	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/permissions"
	"github.com/stretchr/testify/mock"
	"gopkg.in/gomail.v2"
)

type CountryRepository struct {
	mock.Mock
}

var _ core.CountryRepository = &CountryRepository{}

func (m *CountryRepository) AddCountry(ctx context.Context, country *core.Country) error {
	return m.Called(ctx, country).Error(0)
}

func (m *CountryRepository) ListCountries(ctx context.Context) ([]core.Country, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]core.Country)
	return list, args.Error(1)
}

func (m *CountryRepository) GetCountryByID(
	ctx context.Context,
	id core.CountryID,
) (*core.Country, error) {
	args := m.Called(ctx, id)
	country, _ := args.Get(0).(*core.Country)
	return country, args.Error(1)
}

func (m *CountryRepository) GetCountryByName(ctx context.Context, name string) (*core.Country, error) {
	args := m.Called(ctx, name)
	country, _ := args.Get(0).(*core.Country)
	return country, args.Error(1)
}

func (m *CountryRepository) UpdateCountry(ctx context.Context, country *core.Country) error {
	return m.Called(ctx, country).Error(0)
}

func (m *CountryRepository) DeleteCountry(ctx context.Context, id core.CountryID) error {
	return m.Called(ctx, id).Error(0)
}

type PersonRepository struct {
	mock.Mock
}

var _ core.PersonRepository = &PersonRepository{}

func (m *PersonRepository) AddPerson(ctx context.Context, person *core.Person) error {
	return m.Called(ctx, person).Error(0)
}

func (m *PersonRepository) ListPersons(ctx context.Context) ([]core.Person, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]core.Person)
	return list, args.Error(1)
}

// FilterPersons applies the matcher to the list that was configured with On("FilterPersons", ctx).
func (m *PersonRepository) FilterPersons(
	ctx context.Context,
	match core.PersonMatcher,
) ([]core.Person, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]core.Person)
	result := make([]core.Person, 0, len(list))
	for i := range list {
		if match(&list[i]) {
			result = append(result, list[i])
		}
	}
	return result, args.Error(1)
}

func (m *PersonRepository) GetPersonByID(ctx context.Context, id core.PersonID) (*core.Person, error) {
	args := m.Called(ctx, id)
	person, _ := args.Get(0).(*core.Person)
	return person, args.Error(1)
}

func (m *PersonRepository) UpdatePerson(ctx context.Context, person *core.Person) error {
	return m.Called(ctx, person).Error(0)
}

func (m *PersonRepository) DeletePerson(ctx context.Context, id core.PersonID) error {
	return m.Called(ctx, id).Error(0)
}

type UserRepository struct {
	mock.Mock
}

var _ core.UserRepository = &UserRepository{}

func (m *UserRepository) CreateUser(ctx context.Context, data core.UserCreateData) (*core.User, error) {
	args := m.Called(ctx, data)
	user, _ := args.Get(0).(*core.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetUser(ctx context.Context, id core.UserID) (*core.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*core.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetUserByEmail(
	ctx context.Context,
	email core.EmailAddress,
) (*core.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*core.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetPasswordHash(ctx context.Context, id core.UserID) ([]byte, error) {
	args := m.Called(ctx, id)
	hash, _ := args.Get(0).([]byte)
	return hash, args.Error(1)
}

func (m *UserRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]core.User)
	return list, args.Error(1)
}

func (m *UserRepository) GetAmountOfUsers(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	amount, _ := args.Get(0).(uint64)
	return amount, args.Error(1)
}

func (m *UserRepository) UpdateUserAdmin(ctx context.Context, id core.UserID, admin bool) error {
	return m.Called(ctx, id, admin).Error(0)
}

func (m *UserRepository) DeleteUser(ctx context.Context, id core.UserID) error {
	return m.Called(ctx, id).Error(0)
}

type PermissionService struct {
	mock.Mock
}

var _ permissions.Service = &PermissionService{}

func (m *PermissionService) RegisterPermission(
	ctx context.Context,
	permission permissions.Permission,
) error {
	return m.Called(ctx, permission).Error(0)
}

func (m *PermissionService) ListPermissions(ctx context.Context) ([]permissions.Permission, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]permissions.Permission)
	return list, args.Error(1)
}

func (m *PermissionService) GetPermissionGroup(
	ctx context.Context,
	id permissions.PermissionGroupID,
) (*permissions.PermissionGroup, error) {
	args := m.Called(ctx, id)
	group, _ := args.Get(0).(*permissions.PermissionGroup)
	return group, args.Error(1)
}

func (m *PermissionService) GetPermissionGroupByName(
	ctx context.Context,
	name string,
) (*permissions.PermissionGroup, error) {
	args := m.Called(ctx, name)
	group, _ := args.Get(0).(*permissions.PermissionGroup)
	return group, args.Error(1)
}

func (m *PermissionService) UpdatePermissionGroup(
	ctx context.Context,
	group *permissions.PermissionGroup,
) error {
	return m.Called(ctx, group).Error(0)
}

func (m *PermissionService) DeletePermissionGroup(
	ctx context.Context,
	id permissions.PermissionGroupID,
) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PermissionService) CreatePermissionGroup(
	ctx context.Context,
	group *permissions.PermissionGroup,
) (*permissions.PermissionGroup, error) {
	args := m.Called(ctx, group)
	created, _ := args.Get(0).(*permissions.PermissionGroup)
	return created, args.Error(1)
}

func (m *PermissionService) HasAny(
	ctx context.Context,
	userID core.UserID,
	permission permissions.Permission,
) (bool, error) {
	args := m.Called(ctx, userID, permission)
	return args.Bool(0), args.Error(1)
}

func (m *PermissionService) ListPermissionGroups(
	ctx context.Context,
) ([]permissions.PermissionGroup, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]permissions.PermissionGroup)
	return list, args.Error(1)
}

func (m *PermissionService) ListPermissionGroupsForUser(
	ctx context.Context,
	userID core.UserID,
) ([]permissions.PermissionGroup, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]permissions.PermissionGroup)
	return list, args.Error(1)
}

func (m *PermissionService) AddUserToPermissionGroup(
	ctx context.Context,
	userID core.UserID,
	groupID permissions.PermissionGroupID,
) error {
	return m.Called(ctx, userID, groupID).Error(0)
}

func (m *PermissionService) GetUserPermissions(
	ctx context.Context,
	userID core.UserID,
) (map[permissions.Permission]bool, error) {
	args := m.Called(ctx, userID)
	perms, _ := args.Get(0).(map[permissions.Permission]bool)
	return perms, args.Error(1)
}

type EmailService struct {
	mock.Mock
}

var _ core.EmailService = &EmailService{}

func (m *EmailService) SendEmail(
	ctx context.Context,
	address core.EmailAddress,
	subject string,
	plaintextMessage string,
) error {
	return m.Called(ctx, address, subject, plaintextMessage).Error(0)
}

func (m *EmailService) SendNotification(
	ctx context.Context,
	subject string,
	message string,
	args ...any,
) error {
	return m.Called(ctx, subject, message).Error(0)
}

func (m *EmailService) SendRawMessage(ctx context.Context, message *gomail.Message) error {
	return m.Called(ctx, message).Error(0)
}

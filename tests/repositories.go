package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ids of the seed data that is inserted by the migrations of every storage backend.
var (
	SeedEgypt     = uuid.MustParse("000c76eb-62e9-4465-96d1-2c41fdb64c3b")
	SeedPalestine = uuid.MustParse("32da506b-3eba-48a4-bd86-5f93a2e19e3f")
	SeedMuhammad  = uuid.MustParse("8082ed0c-396d-4162-ad1d-29a13f929824")
)

const (
	SeedCountries = 5
	SeedPersons   = 10
)

// CountryRepositoryContract checks the behaviour that every core.CountryRepository implementation shares.
// The repository should contain the seed data.
func CountryRepositoryContract(t *testing.T, repo core.CountryRepository) {
	ctx := context.Background()

	t.Run("ok: seed data in insertion order", func(t *testing.T) {
		list, err := repo.ListCountries(ctx)
		require.Nil(t, err)
		require.GreaterOrEqual(t, len(list), SeedCountries)
		names := make([]string, SeedCountries)
		for i := range names {
			names[i] = list[i].Name
		}
		assert.Equal(t, []string{"Egypt", "Palestine", "Iraq", "Syria", "Libya"}, names)
		assert.Equal(t, SeedEgypt, list[0].ID)
	})

	t.Run("ok: add and get", func(t *testing.T) {
		country := Country()
		require.Nil(t, repo.AddCountry(ctx, &country))

		byID, err := repo.GetCountryByID(ctx, country.ID)
		require.Nil(t, err)
		assert.Equal(t, country, *byID)

		byName, err := repo.GetCountryByName(ctx, country.Name)
		require.Nil(t, err)
		assert.Equal(t, country, *byName)

		list, err := repo.ListCountries(ctx)
		require.Nil(t, err)
		assert.Equal(t, country, list[len(list)-1], "New countries should be listed last")
	})

	t.Run("err: duplicate id", func(t *testing.T) {
		country := core.Country{ID: SeedEgypt, Name: "Other Egypt"}
		assert.ErrorIs(t, repo.AddCountry(ctx, &country), core.ErrConflict)
	})

	t.Run("err: unknown country", func(t *testing.T) {
		_, err := repo.GetCountryByID(ctx, uuid.New())
		assert.ErrorIs(t, err, core.ErrNotFound)
		_, err = repo.GetCountryByName(ctx, "egypt")
		assert.ErrorIs(t, err, core.ErrNotFound, "Names are case-sensitive")
		assert.ErrorIs(t, repo.UpdateCountry(ctx, &core.Country{ID: uuid.New(), Name: "x"}), core.ErrNotFound)
		assert.ErrorIs(t, repo.DeleteCountry(ctx, uuid.New()), core.ErrNotFound)
	})

	t.Run("ok: update and delete", func(t *testing.T) {
		country := Country()
		require.Nil(t, repo.AddCountry(ctx, &country))
		country.Name = "Renamed"
		require.Nil(t, repo.UpdateCountry(ctx, &country))
		stored, err := repo.GetCountryByID(ctx, country.ID)
		require.Nil(t, err)
		assert.Equal(t, "Renamed", stored.Name)

		require.Nil(t, repo.DeleteCountry(ctx, country.ID))
		_, err = repo.GetCountryByID(ctx, country.ID)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

// PersonRepositoryContract checks the behaviour that every core.PersonRepository implementation shares.
// Both repositories should use the same storage and contain the seed data.
func PersonRepositoryContract(
	t *testing.T,
	repo core.PersonRepository,
	countries core.CountryRepository,
) {
	ctx := context.Background()

	t.Run("ok: seed data with attached countries", func(t *testing.T) {
		list, err := repo.ListPersons(ctx)
		require.Nil(t, err)
		require.GreaterOrEqual(t, len(list), SeedPersons)

		first := list[0]
		assert.Equal(t, SeedMuhammad, first.ID)
		assert.Equal(t, "Muhammad Awadallah", first.Name)
		assert.Equal(t, "mo@email.com", first.Email)
		assert.Equal(t, core.GenderMale, first.Gender)
		assert.True(t, first.ReceiveEmails)
		assert.Equal(t, core.DefaultPassport, first.PassportNumber)
		require.NotNil(t, first.DateOfBirth)
		assert.Equal(t, "1981-01-02", first.DateOfBirth.Format(time.DateOnly))
		require.NotNil(t, first.Country)
		assert.Equal(t, "Egypt", first.Country.Name)
		assert.Equal(t, SeedEgypt, *first.CountryID)
	})

	t.Run("ok: add and get", func(t *testing.T) {
		country := Country()
		require.Nil(t, countries.AddCountry(ctx, &country))
		person := Person(&country)
		require.Nil(t, repo.AddPerson(ctx, &person))

		stored, err := repo.GetPersonByID(ctx, person.ID)
		require.Nil(t, err)
		assert.Equal(t, person.Name, stored.Name)
		assert.Equal(t, person.Email, stored.Email)
		assert.True(t, person.DateOfBirth.Equal(*stored.DateOfBirth))
		assert.Equal(t, person.Gender, stored.Gender)
		assert.Equal(t, person.ReceiveEmails, stored.ReceiveEmails)
		assert.Equal(t, country, *stored.Country)
	})

	t.Run("ok: optional fields", func(t *testing.T) {
		person := core.Person{ID: uuid.New(), Name: "Nobody", Email: "nobody@x.com"}
		require.Nil(t, repo.AddPerson(ctx, &person))

		stored, err := repo.GetPersonByID(ctx, person.ID)
		require.Nil(t, err)
		assert.Nil(t, stored.DateOfBirth)
		assert.Nil(t, stored.CountryID)
		assert.Nil(t, stored.Country)
		assert.Empty(t, stored.Gender)
		assert.Equal(t, core.DefaultPassport, stored.PassportNumber)
	})

	t.Run("err: unknown country", func(t *testing.T) {
		person := Person(&core.Country{ID: uuid.New(), Name: "Atlantis"})
		assert.ErrorIs(t, repo.AddPerson(ctx, &person), core.ErrInvalidArgument)
	})

	t.Run("err: unknown person", func(t *testing.T) {
		_, err := repo.GetPersonByID(ctx, uuid.New())
		assert.ErrorIs(t, err, core.ErrNotFound)
		person := Person(nil)
		assert.ErrorIs(t, repo.UpdatePerson(ctx, &person), core.ErrNotFound)
		assert.ErrorIs(t, repo.DeletePerson(ctx, uuid.New()), core.ErrNotFound)
	})

	t.Run("ok: filter", func(t *testing.T) {
		list, err := repo.FilterPersons(ctx, func(p *core.Person) bool {
			return p.Country != nil && p.Country.ID == SeedPalestine
		})
		require.Nil(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Amany Muhammad", list[0].Name)
		assert.Equal(t, "Khaled Jaber", list[1].Name)
	})

	t.Run("ok: update", func(t *testing.T) {
		person := Person(nil)
		require.Nil(t, repo.AddPerson(ctx, &person))
		dob := time.Date(2001, 9, 11, 0, 0, 0, 0, time.UTC)
		egypt := SeedEgypt
		person.Name = "Updated"
		person.DateOfBirth = &dob
		person.CountryID = &egypt
		person.Gender = core.GenderFemale
		require.Nil(t, repo.UpdatePerson(ctx, &person))

		stored, err := repo.GetPersonByID(ctx, person.ID)
		require.Nil(t, err)
		assert.Equal(t, "Updated", stored.Name)
		assert.True(t, dob.Equal(*stored.DateOfBirth))
		assert.Equal(t, core.GenderFemale, stored.Gender)
		require.NotNil(t, stored.Country)
		assert.Equal(t, "Egypt", stored.Country.Name)
	})

	t.Run("ok: delete", func(t *testing.T) {
		person := Person(nil)
		require.Nil(t, repo.AddPerson(ctx, &person))
		require.Nil(t, repo.DeletePerson(ctx, person.ID))
		_, err := repo.GetPersonByID(ctx, person.ID)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("ok: deleting a country clears the reference", func(t *testing.T) {
		country := Country()
		require.Nil(t, countries.AddCountry(ctx, &country))
		person := Person(&country)
		require.Nil(t, repo.AddPerson(ctx, &person))
		require.Nil(t, countries.DeleteCountry(ctx, country.ID))

		stored, err := repo.GetPersonByID(ctx, person.ID)
		require.Nil(t, err)
		assert.Nil(t, stored.CountryID)
		assert.Nil(t, stored.Country)
	})
}

// UserRepositoryContract checks the behaviour that every core.UserRepository implementation shares.
func UserRepositoryContract(t *testing.T, repo core.UserRepository) {
	ctx := context.Background()

	t.Run("ok: create and get", func(t *testing.T) {
		data := core.UserCreateData{
			PersonName:   Faker.Name(),
			Email:        Email(),
			Phone:        Faker.Phone(),
			PasswordHash: []byte("hash"),
		}
		user, err := repo.CreateUser(ctx, data)
		require.Nil(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.False(t, user.Admin)
		assert.WithinDuration(t, time.Now(), user.Joined, time.Minute)

		stored, err := repo.GetUser(ctx, user.ID)
		require.Nil(t, err)
		assert.Equal(t, data.PersonName, stored.PersonName)
		assert.Equal(t, data.Email.String(), stored.Email.String())
		assert.Equal(t, data.Phone, stored.Phone)

		byEmail, err := repo.GetUserByEmail(ctx, data.Email)
		require.Nil(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		hash, err := repo.GetPasswordHash(ctx, user.ID)
		require.Nil(t, err)
		assert.Equal(t, []byte("hash"), hash)
	})

	t.Run("err: duplicate e-mail address", func(t *testing.T) {
		email := Email()
		_, err := repo.CreateUser(ctx, core.UserCreateData{Email: email})
		require.Nil(t, err)
		_, err = repo.CreateUser(ctx, core.UserCreateData{Email: email})
		assert.ErrorIs(t, err, core.ErrConflict)
	})

	t.Run("err: unknown user", func(t *testing.T) {
		_, err := repo.GetUser(ctx, uuid.New())
		assert.ErrorIs(t, err, core.ErrUserDoesNotExist)
		_, err = repo.GetUserByEmail(ctx, Email())
		assert.ErrorIs(t, err, core.ErrUserDoesNotExist)
		_, err = repo.GetPasswordHash(ctx, uuid.New())
		assert.ErrorIs(t, err, core.ErrUserDoesNotExist)
		assert.ErrorIs(t, repo.UpdateUserAdmin(ctx, uuid.New(), true), core.ErrUserDoesNotExist)
	})

	t.Run("ok: list, count, update and delete", func(t *testing.T) {
		before, err := repo.GetAmountOfUsers(ctx)
		require.Nil(t, err)
		user, err := repo.CreateUser(ctx, core.UserCreateData{Email: Email()})
		require.Nil(t, err)

		after, err := repo.GetAmountOfUsers(ctx)
		require.Nil(t, err)
		assert.Equal(t, before+1, after)

		list, err := repo.ListUsers(ctx)
		require.Nil(t, err)
		assert.Len(t, list, int(after))

		require.Nil(t, repo.UpdateUserAdmin(ctx, user.ID, true))
		stored, err := repo.GetUser(ctx, user.ID)
		require.Nil(t, err)
		assert.True(t, stored.Admin)

		require.Nil(t, repo.DeleteUser(ctx, user.ID))
		_, err = repo.GetUser(ctx, user.ID)
		assert.ErrorIs(t, err, core.ErrUserDoesNotExist)
	})
}

// PermissionServiceContract checks the behaviour that every permissions.Service implementation shares.
func PermissionServiceContract(t *testing.T, service permissions.Service, users core.UserRepository) {
	ctx := context.Background()
	require.Nil(t, permissions.RegisterPermissions(ctx, service))

	createUser := func() *core.User {
		user, err := users.CreateUser(ctx, core.UserCreateData{Email: Email()})
		Check(err)
		return user
	}
	createUserWithPermissions := func(perms map[permissions.Permission]bool) *core.User {
		group, err := service.CreatePermissionGroup(ctx, &permissions.PermissionGroup{
			Name:        Faker.UUID(),
			Permissions: perms,
		})
		Check(err)
		user := createUser()
		Check(service.AddUserToPermissionGroup(ctx, user.ID, group.ID))
		return user
	}

	t.Run("ok: registering twice", func(t *testing.T) {
		require.Nil(t, permissions.RegisterPermissions(ctx, service))
		list, err := service.ListPermissions(ctx)
		require.Nil(t, err)
		assert.ElementsMatch(t, permissions.AllPermissions(), list)
	})

	t.Run("ok: user without group", func(t *testing.T) {
		user := createUser()
		perms, err := service.GetUserPermissions(ctx, user.ID)
		require.Nil(t, err)
		assert.NotNil(t, perms, "GetUserPermissions should never return nil, nil")
		assert.Empty(t, perms, "User without any groups should not have any permissions")
	})

	t.Run("ok: empty permission group", func(t *testing.T) {
		group, err := service.CreatePermissionGroup(ctx, &permissions.PermissionGroup{
			Name:        "test",
			Permissions: nil,
		})
		require.Nil(t, err)

		group, err = service.GetPermissionGroup(ctx, group.ID)
		require.Nil(t, err)
		assert.Equal(t, "test", group.Name)

		for _, p := range permissions.AllPermissions() {
			enabled, ok := group.Permissions[p]
			assert.True(t, ok, "Could not find permission %q in group permissions", p)
			assert.False(t, enabled, "Permission %q should be disabled in a new, empty group", p)
		}
	})

	t.Run("err: duplicate group name", func(t *testing.T) {
		_, err := service.CreatePermissionGroup(ctx, &permissions.PermissionGroup{Name: "duplicate"})
		require.Nil(t, err)
		_, err = service.CreatePermissionGroup(ctx, &permissions.PermissionGroup{Name: "duplicate"})
		assert.ErrorIs(t, err, core.ErrConflict)
	})

	t.Run("ok: combined permission groups", func(t *testing.T) {
		user := createUser()
		group1, err := service.CreatePermissionGroup(ctx, &permissions.PermissionGroup{
			Name: "group 1",
			Permissions: map[permissions.Permission]bool{
				permissions.PermViewPersons: true,
			},
		})
		require.Nil(t, err)
		group2, err := service.CreatePermissionGroup(ctx, &permissions.PermissionGroup{
			Name: "group 2",
			Permissions: map[permissions.Permission]bool{
				permissions.PermEditPersons:   true,
				permissions.PermEditCountries: true,
			},
		})
		require.Nil(t, err)

		require.Nil(t, service.AddUserToPermissionGroup(ctx, user.ID, group1.ID))
		require.Nil(t, service.AddUserToPermissionGroup(ctx, user.ID, group2.ID))

		groups, err := service.ListPermissionGroupsForUser(ctx, user.ID)
		require.Nil(t, err)
		assert.Len(t, groups, 2)

		perms, err := service.GetUserPermissions(ctx, user.ID)
		require.Nil(t, err)
		for _, p := range []permissions.Permission{
			permissions.PermViewPersons,
			permissions.PermEditPersons,
			permissions.PermEditCountries,
		} {
			assert.True(t, perms[p], "Permission %q should be true in combination", p)
		}
		assert.False(t, perms[permissions.PermDeletePersons])
	})

	t.Run("ok: has any", func(t *testing.T) {
		user := createUserWithPermissions(map[permissions.Permission]bool{
			permissions.PermViewPersons:   true,
			permissions.PermDeletePersons: false,
		})
		result, err := service.HasAny(ctx, user.ID, permissions.PermViewPersons)
		require.Nil(t, err)
		assert.True(t, result)

		result, err = service.HasAny(ctx, user.ID, permissions.PermDeletePersons)
		require.Nil(t, err)
		assert.False(t, result, "Disabled permission should be false")

		result, err = service.HasAny(ctx, user.ID, permissions.PermEditCountries)
		require.Nil(t, err)
		assert.False(t, result, "Permission that is not part of the group should be false")

		result, err = service.HasAny(ctx, user.ID, "unknown_permission")
		require.Nil(t, err)
		assert.False(t, result, "Unknown permission should be false")
	})

	t.Run("ok: update, rename and delete group", func(t *testing.T) {
		group, err := service.CreatePermissionGroup(ctx, &permissions.PermissionGroup{Name: "before"})
		require.Nil(t, err)
		group.Name = "after"
		group.Permissions = map[permissions.Permission]bool{permissions.PermExportPersons: true}
		require.Nil(t, service.UpdatePermissionGroup(ctx, group))

		stored, err := service.GetPermissionGroupByName(ctx, "after")
		require.Nil(t, err)
		assert.Equal(t, group.ID, stored.ID)
		assert.True(t, stored.Get(permissions.PermExportPersons))
		assert.False(t, stored.Get(permissions.PermEditPersons))

		require.Nil(t, service.DeletePermissionGroup(ctx, group.ID))
		_, err = service.GetPermissionGroup(ctx, group.ID)
		assert.ErrorIs(t, err, core.ErrNotFound)
		_, err = service.GetPermissionGroupByName(ctx, "after")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("ok: predefined roles", func(t *testing.T) {
		require.Nil(t, permissions.EnsureRoles(ctx, service))
		require.Nil(t, permissions.EnsureRoles(ctx, service))

		admin, err := service.GetPermissionGroupByName(ctx, permissions.RoleAdmin)
		require.Nil(t, err)
		for _, p := range permissions.AllPermissions() {
			assert.True(t, admin.Get(p), "Admin should have %q", p)
		}
		user, err := service.GetPermissionGroupByName(ctx, permissions.RoleUser)
		require.Nil(t, err)
		assert.True(t, user.Get(permissions.PermViewPersons))
		assert.False(t, user.Get(permissions.PermDeletePersons))
	})
}

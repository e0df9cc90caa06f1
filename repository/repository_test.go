package repository

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"insuranceapi/config"
	"insuranceapi/models"
	"insuranceapi/services/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func day(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func str(s string) *string { return &s }

func newClient(name string) *models.Client {
	return &models.Client{
		ClientName: name,
		ClientType: models.ClientTypeIndividual,
		Contact:    "9876543100",
		Tag:        models.TagA,
	}
}

func newGic(clientID uint, date string) *models.GicEntry {
	return &models.GicEntry{
		EntryBase: models.EntryBase{
			ClientID:   clientID,
			Date:       day(date),
			FormStatus: models.StatusPending,
		},
		PolicyType:   models.PolicyMotor,
		MotorSubtype: str(models.MotorSubtypeA),
		VehicleNum:   str("GJ01AB1234"),
		Premium:      decimal.NewNullDecimal(decimal.NewFromInt(10000)),
		Advance:      decimal.NewNullDecimal(decimal.NewFromInt(2000)),
		Recovery:     decimal.NewNullDecimal(decimal.NewFromInt(500)),
	}
}

func TestClientRepositoryCreateAssignsSrNo(t *testing.T) {
	repo := NewClientRepositoryWithDB(newTestDB(t), 3)

	a := newClient("Asha Patel")
	b := newClient("Ravi Shah")
	require.NoError(t, repo.Create(nil, a))
	require.NoError(t, repo.Create(nil, b))

	assert.Equal(t, 1, a.SrNo)
	assert.Equal(t, 2, b.SrNo)

	// Soft-deleted rows keep their number.
	require.NoError(t, repo.Delete(nil, b.ID))
	c := newClient("Mina Desai")
	require.NoError(t, repo.Create(nil, c))
	assert.Equal(t, 3, c.SrNo)
}

func TestClientRepositoryList(t *testing.T) {
	db := newTestDB(t)
	repo := NewClientRepositoryWithDB(db, 3)

	city := &models.City{CityName: "Surat", Country: "India", IsActive: true}
	require.NoError(t, db.Create(city).Error)

	for i, name := range []string{"Asha Patel", "Ravi Shah", "Asha Mehta"} {
		c := newClient(name)
		if i == 2 {
			c.Tag = models.TagB
			c.CityID = &city.ID
		}
		require.NoError(t, repo.Create(nil, c))
	}

	tests := []struct {
		name   string
		filter dto.ClientFilter
		want   []string
		total  int64
	}{
		{"all newest first", dto.ClientFilter{}, []string{"Asha Mehta", "Ravi Shah", "Asha Patel"}, 3},
		{"search is case insensitive", dto.ClientFilter{Search: "asha"}, []string{"Asha Mehta", "Asha Patel"}, 2},
		{"search by sr_no", dto.ClientFilter{Search: "2"}, []string{"Ravi Shah"}, 1},
		{"tag", dto.ClientFilter{Tag: "b"}, []string{"Asha Mehta"}, 1},
		{"city", dto.ClientFilter{CityID: &city.ID}, []string{"Asha Mehta"}, 1},
		{"second page", dto.ClientFilter{PageRequest: dto.PageRequest{Page: 2, PageSize: 2}}, []string{"Asha Patel"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.filter
			f.PageRequest = f.PageRequest.Normalize(10, 100)
			clients, total, err := repo.List(nil, f)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			var names []string
			for _, c := range clients {
				names = append(names, c.ClientName)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestClientRepositoryGetUpdateDelete(t *testing.T) {
	repo := NewClientRepositoryWithDB(newTestDB(t), 3)

	c := newClient("Asha Patel")
	c.BirthDate = models.DatePtr(time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(nil, c))

	got, err := repo.GetByID(nil, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BirthDate)
	assert.Equal(t, "1990-06-15", got.BirthDate.String())

	got.ClientName = "Asha P. Patel"
	got.SrNo = 99
	got.BirthDate = nil
	require.NoError(t, repo.Update(nil, got))

	got, err = repo.GetByID(nil, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha P. Patel", got.ClientName)
	assert.Equal(t, 1, got.SrNo)
	assert.Nil(t, got.BirthDate)

	require.NoError(t, repo.Delete(nil, c.ID))
	_, err = repo.GetByID(nil, c.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(nil, c.ID), gorm.ErrRecordNotFound)

	count, err := repo.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestClientRepositoryListWithSpecialDates(t *testing.T) {
	repo := NewClientRepositoryWithDB(newTestDB(t), 3)

	plain := newClient("No Dates")
	born := newClient("Born")
	born.BirthDate = models.DatePtr(time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC))
	married := newClient("Married")
	married.AnniversaryDate = models.DatePtr(time.Date(2015, 2, 10, 0, 0, 0, 0, time.UTC))
	for _, c := range []*models.Client{plain, born, married} {
		require.NoError(t, repo.Create(nil, c))
	}

	clients, err := repo.ListWithSpecialDates(nil)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Born", clients[0].ClientName)
	assert.Equal(t, "Married", clients[1].ClientName)
}

func TestEntryRepositoryCreateAndDerive(t *testing.T) {
	db := newTestDB(t)
	clients := NewClientRepositoryWithDB(db, 3)
	repo := NewEntryRepositoryWithDB[models.GicEntry](db, 3)

	c := newClient("Asha Patel")
	require.NoError(t, clients.Create(nil, c))

	next, err := repo.NextRegNum(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	e := newGic(c.ID, "2024-06-01")
	require.NoError(t, repo.Create(nil, e))
	assert.Equal(t, 1, e.RegNum)

	got, err := repo.GetByID(nil, e.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(8500)), "balance %s", got.Balance)
	require.NotNil(t, got.Client)
	assert.Equal(t, "Asha Patel", got.Client.ClientName)
	assert.Equal(t, "2024-06-01", got.Date.String())

	next, err = repo.NextRegNum(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, next)
}

func TestEntryRepositoryCreateRetriesOnDuplicateRegNum(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepositoryWithDB[models.GicEntry](db, 3)

	// The first insert attempt loses the race: a row with the same reg_num
	// lands just before it inside the same transaction.
	var raced int32
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:race", func(tx *gorm.DB) {
		e, ok := tx.Statement.Dest.(*models.GicEntry)
		if !ok || !atomic.CompareAndSwapInt32(&raced, 0, 1) {
			return
		}
		_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"INSERT INTO gic_entries (reg_num, client_id, date, form_status, policy_type) VALUES (?, ?, ?, ?, ?)",
			e.RegNum, e.ClientID, "2024-05-01", models.StatusPending, models.PolicyNonMotor)
		require.NoError(t, err)
	}))

	e := newGic(1, "2024-06-01")
	err := repo.Create(nil, e)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&raced))

	// The racing row was rolled back with the failed attempt, so the retry reuses 1.
	assert.Equal(t, 1, e.RegNum)
	count, err := repo.Count(nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEntryRepositoryCreateGivesUpAfterMaxRetries(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepositoryWithDB[models.GicEntry](db, 2)

	var attempts int32
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:always-race", func(tx *gorm.DB) {
		e, ok := tx.Statement.Dest.(*models.GicEntry)
		if !ok {
			return
		}
		atomic.AddInt32(&attempts, 1)
		_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"INSERT INTO gic_entries (reg_num, client_id, date, form_status, policy_type) VALUES (?, ?, ?, ?, ?)",
			e.RegNum, e.ClientID, "2024-05-01", models.StatusPending, models.PolicyNonMotor)
		require.NoError(t, err)
	}))

	err := repo.Create(nil, newGic(1, "2024-06-01"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestEntryRepositoryList(t *testing.T) {
	db := newTestDB(t)
	clients := NewClientRepositoryWithDB(db, 3)
	repo := NewEntryRepositoryWithDB[models.GicEntry](db, 3)

	asha := newClient("Asha Patel")
	ravi := newClient("Ravi Shah")
	require.NoError(t, clients.Create(nil, asha))
	require.NoError(t, clients.Create(nil, ravi))

	dates := []string{"2024-01-10", "2024-02-10", "2024-03-10", "2024-04-10"}
	for i, d := range dates {
		owner := asha.ID
		if i%2 == 1 {
			owner = ravi.ID
		}
		e := newGic(owner, d)
		if i == 3 {
			e.FormStatus = models.StatusComplete
			e.PolicyType = models.PolicyNonMotor
			e.NonmotorSubtypeID = new(uint)
			*e.NonmotorSubtypeID = 1
		}
		require.NoError(t, repo.Create(nil, e))
	}

	from := day("2024-02-01")
	to := day("2024-03-31")
	regNum := 1

	tests := []struct {
		name   string
		filter dto.EntryFilter
		want   []int
	}{
		{"all by reg_num desc", dto.EntryFilter{}, []int{4, 3, 2, 1}},
		{"client", dto.EntryFilter{ClientID: &ravi.ID}, []int{4, 2}},
		{"status", dto.EntryFilter{FormStatus: "complete"}, []int{4}},
		{"discriminator", dto.EntryFilter{Discriminator: "motor"}, []int{3, 2, 1}},
		{"date range", dto.EntryFilter{DateFrom: &from, DateTo: &to}, []int{3, 2}},
		{"reg_num", dto.EntryFilter{RegNum: &regNum}, []int{1}},
		{"client name search", dto.EntryFilter{Search: "RAVI"}, []int{4, 2}},
		{"page", dto.EntryFilter{PageRequest: dto.PageRequest{Page: 2, PageSize: 3}}, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.filter
			f.PageRequest = f.PageRequest.Normalize(10, 100)
			entries, total, err := repo.List(nil, f)
			require.NoError(t, err)
			var got []int
			for _, e := range entries {
				got = append(got, e.RegNum)
				require.NotNil(t, e.Client, "reg_num %d", e.RegNum)
			}
			assert.Equal(t, tt.want, got)
			if tt.filter.Page == 0 {
				assert.Equal(t, int64(len(tt.want)), total)
			}
		})
	}
}

func TestEntryRepositoryUpdateDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepositoryWithDB[models.GicEntry](db, 3)

	e := newGic(1, "2024-06-01")
	require.NoError(t, repo.Create(nil, e))

	got, err := repo.GetByID(nil, e.ID)
	require.NoError(t, err)
	got.RegNum = 42
	got.Recovery = decimal.NullDecimal{}
	got.FormStatus = models.StatusComplete
	require.NoError(t, repo.Update(nil, got))

	got, err = repo.GetByID(nil, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RegNum)
	assert.Equal(t, models.StatusComplete, got.FormStatus)
	assert.False(t, got.Recovery.Valid)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(8000)), "balance %s", got.Balance)

	pending, err := repo.Count(nil, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending)

	require.NoError(t, repo.Delete(nil, e.ID))
	assert.ErrorIs(t, repo.Delete(nil, e.ID), gorm.ErrRecordNotFound)
}

func TestEntryRepositoryListByClient(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepositoryWithDB[models.RtoEntry](db, 3)

	for i, d := range []string{"2024-01-01", "2024-03-01", "2024-02-01"} {
		e := &models.RtoEntry{
			EntryBase: models.EntryBase{ClientID: 7, Date: day(d), FormStatus: models.StatusPending},
			Category:  models.RtoLicence,
			Premium:   decimal.NewNullDecimal(decimal.NewFromInt(int64(1000 * (i + 1)))),
		}
		require.NoError(t, repo.Create(nil, e))
	}

	entries, err := repo.ListByClient(nil, 7)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2024-03-01", entries[0].Date.String())
	assert.True(t, entries[0].NewAmt.Equal(decimal.NewFromInt(2000)))

	none, err := repo.ListByClient(nil, 8)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLookupRepositories(t *testing.T) {
	db := newTestDB(t)
	cities := NewCityRepositoryWithDB(db)
	dropdowns := NewDropdownRepositoryWithDB(db)

	surat := &models.City{CityName: "Surat", Country: "India", IsActive: true}
	require.NoError(t, cities.Create(nil, surat))
	surat.IsActive = false
	require.NoError(t, cities.Update(nil, surat))

	active, err := cities.List(nil, true)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := cities.List(nil, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	for i, v := range []string{"SBI", "HDFC"} {
		require.NoError(t, dropdowns.Create(nil, &models.DropdownOption{
			Category: models.CategoryBank, Value: v, DisplayOrder: i, IsActive: true,
		}))
	}
	require.NoError(t, dropdowns.Create(nil, &models.DropdownOption{Category: models.CategoryAgency, Value: "LIC Branch 1", IsActive: true}))

	err = dropdowns.Create(nil, &models.DropdownOption{Category: models.CategoryBank, Value: "SBI", IsActive: true})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	banks, err := dropdowns.ListByCategory(nil, models.CategoryBank, true)
	require.NoError(t, err)
	require.Len(t, banks, 2)
	assert.Equal(t, "SBI", banks[0].Value)

	categories, err := dropdowns.Categories(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{models.CategoryAgency, models.CategoryBank}, categories)
}

func TestUserAndAuditRepositories(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepositoryWithDB(db)
	audits := NewAuditRepositoryWithDB(db)

	u := &models.User{Username: "admin", PasswordHash: "x", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, users.Create(nil, u))
	assert.ErrorIs(t, users.Create(nil, &models.User{Username: "admin", PasswordHash: "y", Role: models.RoleStaff}), gorm.ErrDuplicatedKey)

	got, err := users.GetByUsername(nil, "admin")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, users.UpdatePassword(nil, u.ID, "z"))
	require.NoError(t, users.TouchLogin(nil, u.ID, time.Now().UTC()))
	got, err = users.GetByID(nil, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "z", got.PasswordHash)
	assert.NotNil(t, got.LastLoginAt)

	admins, err := users.CountByRole(nil, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), admins)

	for i := 1; i <= 3; i++ {
		require.NoError(t, audits.Create(nil, &models.AuditLog{
			UserID: &u.ID, Username: "admin", Entity: "gic", EntityID: uint(i),
			Action: models.ActionCreate, Details: fmt.Sprintf("reg_num=%d", i),
		}))
	}
	eid := uint(2)
	rows, total, err := audits.List(nil, dto.AuditFilter{PageRequest: dto.PageRequest{Page: 1, PageSize: 10}, Entity: "gic", EntityID: &eid})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "reg_num=2", rows[0].Details)
}

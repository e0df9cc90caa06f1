package services

import (
	"insuranceapi/models"
	"insuranceapi/repository"
	"insuranceapi/services/dto"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntryRepositories bundles the repositories of the five entry types for
// services that read across all of them.
type EntryRepositories struct {
	GIC  repository.EntryRepository[models.GicEntry, *models.GicEntry]
	LIC  repository.EntryRepository[models.LicEntry, *models.LicEntry]
	RTO  repository.EntryRepository[models.RtoEntry, *models.RtoEntry]
	BMDS repository.EntryRepository[models.BmdsEntry, *models.BmdsEntry]
	MF   repository.EntryRepository[models.MfEntry, *models.MfEntry]
}

// NewEntryRepositories creates entry repositories on the shared connection.
func NewEntryRepositories() EntryRepositories {
	return EntryRepositories{
		GIC:  repository.NewEntryRepository[models.GicEntry](),
		LIC:  repository.NewEntryRepository[models.LicEntry](),
		RTO:  repository.NewEntryRepository[models.RtoEntry](),
		BMDS: repository.NewEntryRepository[models.BmdsEntry](),
		MF:   repository.NewEntryRepository[models.MfEntry](),
	}
}

// NewEntryRepositoriesWithDB creates entry repositories on an explicit connection.
func NewEntryRepositoriesWithDB(db *gorm.DB, maxRetries int) EntryRepositories {
	return EntryRepositories{
		GIC:  repository.NewEntryRepositoryWithDB[models.GicEntry](db, maxRetries),
		LIC:  repository.NewEntryRepositoryWithDB[models.LicEntry](db, maxRetries),
		RTO:  repository.NewEntryRepositoryWithDB[models.RtoEntry](db, maxRetries),
		BMDS: repository.NewEntryRepositoryWithDB[models.BmdsEntry](db, maxRetries),
		MF:   repository.NewEntryRepositoryWithDB[models.MfEntry](db, maxRetries),
	}
}

// stats counts all and pending entries of one type.
func stats[T any, PT repository.EntryPtr[T]](tx *gorm.DB, repo repository.EntryRepository[T, PT]) (dto.EntryStats, error) {
	total, err := repo.Count(tx, "")
	if err != nil {
		return dto.EntryStats{}, err
	}
	pending, err := repo.Count(tx, models.StatusPending)
	if err != nil {
		return dto.EntryStats{}, err
	}
	return dto.EntryStats{Total: total, Pending: pending}, nil
}

// groupEntries builds one profile section. Derived fields are already set by AfterFind.
func groupEntries[T any, PT repository.EntryPtr[T]](items []T) dto.EntryGroup[T] {
	if items == nil {
		items = []T{}
	}
	g := dto.EntryGroup[T]{Count: len(items), Total: decimal.Zero, Items: items}
	for i := range items {
		e := PT(&items[i])
		if e.GetBase().FormStatus == models.StatusPending {
			g.Pending++
		}
		g.Total = g.Total.Add(e.SummaryAmount())
	}
	return g
}

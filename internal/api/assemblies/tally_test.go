package assemblies

import (
	"testing"

	"armonia-backend/internal/domain/assemblies"
	"armonia-backend/internal/domain/inventory"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&assemblies.Assembly{},
		&assemblies.AgendaItem{},
		&assemblies.Vote{},
		&inventory.Property{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func coeff(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestBuildTally(t *testing.T) {
	db := testDB(t)

	// four units, equal 0.25 coefficients
	for i := 1; i <= 4; i++ {
		p := inventory.Property{UnitNumber: string(rune('A' + i - 1)), Coefficient: coeff("0.25")}
		if err := db.Create(&p).Error; err != nil {
			t.Fatal(err)
		}
	}

	item := assemblies.AgendaItem{AssemblyID: 1, Topic: "Cuota extraordinaria", VotingOpen: true}
	if err := db.Create(&item).Error; err != nil {
		t.Fatal(err)
	}

	votes := []assemblies.Vote{
		{AgendaItemID: item.ID, PropertyID: 1, Coefficient: coeff("0.25"), Choice: assemblies.VoteYes},
		{AgendaItemID: item.ID, PropertyID: 2, Coefficient: coeff("0.25"), Choice: assemblies.VoteYes},
		{AgendaItemID: item.ID, PropertyID: 3, Coefficient: coeff("0.25"), Choice: assemblies.VoteNo},
	}
	for i := range votes {
		if err := db.Create(&votes[i]).Error; err != nil {
			t.Fatal(err)
		}
	}

	tally, err := BuildTally(db, item.ID)
	if err != nil {
		t.Fatalf("BuildTally: %v", err)
	}

	if tally.Ballots != 3 {
		t.Errorf("ballots = %d, want 3", tally.Ballots)
	}
	if !tally.Yes.Equal(coeff("0.5")) {
		t.Errorf("yes = %s, want 0.5", tally.Yes)
	}
	if !tally.No.Equal(coeff("0.25")) {
		t.Errorf("no = %s, want 0.25", tally.No)
	}
	if !tally.Abstain.IsZero() {
		t.Errorf("abstain = %s, want 0", tally.Abstain)
	}
	if !tally.QuorumPct.Equal(coeff("75")) {
		t.Errorf("quorum = %s, want 75", tally.QuorumPct)
	}
}

func TestBuildTally_NoVotes(t *testing.T) {
	db := testDB(t)

	p := inventory.Property{UnitNumber: "101", Coefficient: coeff("1")}
	if err := db.Create(&p).Error; err != nil {
		t.Fatal(err)
	}

	tally, err := BuildTally(db, 99)
	if err != nil {
		t.Fatalf("BuildTally: %v", err)
	}
	if tally.Ballots != 0 || !tally.QuorumPct.IsZero() {
		t.Errorf("expected empty tally, got %+v", tally)
	}
}

func TestVoteUniquePerProperty(t *testing.T) {
	db := testDB(t)

	item := assemblies.AgendaItem{AssemblyID: 1, Topic: "x", VotingOpen: true}
	if err := db.Create(&item).Error; err != nil {
		t.Fatal(err)
	}

	first := assemblies.Vote{AgendaItemID: item.ID, PropertyID: 1, Coefficient: coeff("0.5"), Choice: assemblies.VoteYes}
	if err := db.Create(&first).Error; err != nil {
		t.Fatal(err)
	}

	dup := assemblies.Vote{AgendaItemID: item.ID, PropertyID: 1, Coefficient: coeff("0.5"), Choice: assemblies.VoteNo}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("expected unique violation for second ballot from same property")
	}
}

package assemblies

import (
	"armonia-backend/internal/domain/assemblies"
	"armonia-backend/internal/domain/inventory"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tally is the weighted result of one agenda item. Weights are ownership
// coefficients, so QuorumPct is the share of the whole building that voted.
type Tally struct {
	AgendaItemID uint            `json:"agenda_item_id"`
	Ballots      int64           `json:"ballots"`
	Yes          decimal.Decimal `json:"yes"`
	No           decimal.Decimal `json:"no"`
	Abstain      decimal.Decimal `json:"abstain"`
	VotedWeight  decimal.Decimal `json:"voted_weight"`
	TotalWeight  decimal.Decimal `json:"total_weight"`
	QuorumPct    decimal.Decimal `json:"quorum_pct"`
}

func BuildTally(db *gorm.DB, agendaItemID uint) (*Tally, error) {
	var votes []assemblies.Vote
	if err := db.Where("agenda_item_id = ?", agendaItemID).Find(&votes).Error; err != nil {
		return nil, err
	}

	tally := &Tally{
		AgendaItemID: agendaItemID,
		Ballots:      int64(len(votes)),
		Yes:          decimal.Zero,
		No:           decimal.Zero,
		Abstain:      decimal.Zero,
		VotedWeight:  decimal.Zero,
		TotalWeight:  decimal.Zero,
		QuorumPct:    decimal.Zero,
	}

	for _, v := range votes {
		tally.VotedWeight = tally.VotedWeight.Add(v.Coefficient)
		switch v.Choice {
		case assemblies.VoteYes:
			tally.Yes = tally.Yes.Add(v.Coefficient)
		case assemblies.VoteNo:
			tally.No = tally.No.Add(v.Coefficient)
		case assemblies.VoteAbstain:
			tally.Abstain = tally.Abstain.Add(v.Coefficient)
		}
	}

	var properties []inventory.Property
	if err := db.Select("coefficient").Find(&properties).Error; err != nil {
		return nil, err
	}
	for _, p := range properties {
		tally.TotalWeight = tally.TotalWeight.Add(p.Coefficient)
	}

	if tally.TotalWeight.IsPositive() {
		tally.QuorumPct = tally.VotedWeight.
			Div(tally.TotalWeight).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return tally, nil
}

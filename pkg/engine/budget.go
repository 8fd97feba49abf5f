package engine

import (
	"github.com/shopspring/decimal"

	"github.com/vitalpark/fleet-engine/pkg/models"
)

// BudgetItem is one asset selected for replacement by the budget planner.
type BudgetItem struct {
	Identifier    string          `json:"identifier"`
	EquipmentType string          `json:"equipment_type"`
	PriorityRank  int             `json:"priority_rank"`
	PriorityScore float64         `json:"priority_score"`
	Value         decimal.Decimal `json:"value"`
}

// BudgetPlan is a replacement plan for a given budget.
type BudgetPlan struct {
	Budget               decimal.Decimal `json:"budget"`
	Selected             []BudgetItem    `json:"selected"`
	TotalReplacementCost decimal.Decimal `json:"total_replacement_cost"`
	Remaining            decimal.Decimal `json:"remaining"`
}

// PlanBudget walks the consolidated table in priority order and greedily
// selects every asset whose declared value fits the remaining budget.
// Assets without a positive declared value are skipped: they cannot be
// priced for replacement.
func PlanBudget(assets []models.ConsolidatedAsset, budget decimal.Decimal) BudgetPlan {
	plan := BudgetPlan{
		Budget:               budget,
		Selected:             []BudgetItem{},
		TotalReplacementCost: decimal.Zero,
		Remaining:            budget,
	}
	for _, a := range assets {
		if !a.Value.Valid || !a.Value.Decimal.IsPositive() {
			continue
		}
		value := a.Value.Decimal
		if plan.Remaining.LessThan(value) {
			continue
		}
		plan.Selected = append(plan.Selected, BudgetItem{
			Identifier:    a.Identifier,
			EquipmentType: a.EquipmentType,
			PriorityRank:  a.PriorityRank,
			PriorityScore: a.PriorityScore,
			Value:         value,
		})
		plan.Remaining = plan.Remaining.Sub(value)
		plan.TotalReplacementCost = plan.TotalReplacementCost.Add(value)
	}
	return plan
}

package reconcile

import (
	"testing"
	"time"

	"github.com/alissonfar/expense-hub-sub001/models"
)

func TestDecideExcess(t *testing.T) {
	date := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		cfg          models.ExcessConfig
		process      bool
		createIncome bool
		excess       float64
		wantRecord   bool
		wantCreate   bool
	}{
		{
			name: "no excess does nothing",
			cfg:  models.ExcessConfig{}, process: true, createIncome: true,
			excess: 0,
		},
		{
			name: "sub-cent excess does nothing",
			cfg:  models.ExcessConfig{}, process: true, createIncome: true,
			excess: 0.005,
		},
		{
			name: "process disabled records only",
			cfg:  models.ExcessConfig{}, process: false, createIncome: true,
			excess: 50, wantRecord: true,
		},
		{
			name: "income creation disabled records only",
			cfg:  models.ExcessConfig{}, process: true, createIncome: false,
			excess: 50, wantRecord: true,
		},
		{
			name: "below threshold records only",
			cfg:  models.ExcessConfig{MinimumAmount: 100}, process: true, createIncome: true,
			excess: 50, wantRecord: true,
		},
		{
			name: "at threshold materializes",
			cfg:  models.ExcessConfig{MinimumAmount: 50}, process: true, createIncome: true,
			excess: 50, wantRecord: true, wantCreate: true,
		},
		{
			name: "no threshold materializes",
			cfg:  models.ExcessConfig{}, process: true, createIncome: true,
			excess: 50, wantRecord: true, wantCreate: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DecideExcess(tt.cfg, tt.process, tt.createIncome, tt.excess, "Maria", date)
			if d.Record != tt.wantRecord || d.Materialize != tt.wantCreate {
				t.Errorf("decision = %+v, want record=%v materialize=%v", d, tt.wantRecord, tt.wantCreate)
			}
			if d.Materialize && d.Description == "" {
				t.Error("materialized decision has empty description")
			}
		})
	}
}

func TestExcessDescription(t *testing.T) {
	date := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)

	got := ExcessDescription(models.ExcessConfig{}, "Maria", date)
	want := "Excedente de pagamento de Maria em 02/04/2025"
	if got != want {
		t.Errorf("default template = %q, want %q", got, want)
	}

	got = ExcessDescription(models.ExcessConfig{IncomeDescription: "Credito: {pessoa} ({data})"}, "Joao", date)
	want = "Credito: Joao (02/04/2025)"
	if got != want {
		t.Errorf("custom template = %q, want %q", got, want)
	}

	// Blank template falls back to the default.
	got = ExcessDescription(models.ExcessConfig{IncomeDescription: "   "}, "Ana", date)
	if got != "Excedente de pagamento de Ana em 02/04/2025" {
		t.Errorf("blank template fallback = %q", got)
	}
}

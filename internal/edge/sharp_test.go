package edge

import (
	"math"
	"testing"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

func TestClassifySharp(t *testing.T) {
	tests := []struct {
		name          string
		signal        *models.SharpSignal
		pick          models.Side
		wantAlignment models.SharpAlignment
		wantModifier  float64
	}{
		{"no signal", nil, models.SideHome, models.SharpUnknown, 1.0},
		{
			"below moderate divergence",
			&models.SharpSignal{TicketsPct: 52, MoneyPct: 50, Side: models.SideHome},
			models.SideHome, models.SharpNeutral, 1.0,
		},
		{
			"moderate confirm",
			&models.SharpSignal{TicketsPct: 40, MoneyPct: 47, Side: models.SideHome},
			models.SideHome, models.SharpConfirms, 1.10,
		},
		{
			"strong confirm",
			&models.SharpSignal{TicketsPct: 40, MoneyPct: 52, Side: models.SideHome},
			models.SideHome, models.SharpConfirms, 1.15,
		},
		{
			"very strong confirm",
			&models.SharpSignal{TicketsPct: 30, MoneyPct: 55, Side: models.SideHome},
			models.SideHome, models.SharpConfirms, 1.20,
		},
		{
			"very strong contradict",
			&models.SharpSignal{TicketsPct: 70, MoneyPct: 40, Side: models.SideHome},
			models.SideAway, models.SharpContradicts, 0.80,
		},
		{
			"moderate contradict",
			&models.SharpSignal{TicketsPct: 53, MoneyPct: 47, Side: models.SideAway},
			models.SideHome, models.SharpContradicts, 0.90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alignment, modifier := classifySharp(tt.signal, tt.pick, 5, 10, 20)

			if alignment != tt.wantAlignment {
				t.Errorf("alignment = %v, want %v", alignment, tt.wantAlignment)
			}
			if math.Abs(modifier-tt.wantModifier) > 1e-9 {
				t.Errorf("modifier = %v, want %v", modifier, tt.wantModifier)
			}
		})
	}
}

func TestLowVolumeThresholdsMuteSignals(t *testing.T) {
	// A divergence that moves an NFL number is noise in a college market
	signal := &models.SharpSignal{TicketsPct: 60, MoneyPct: 48, Side: models.SideHome}

	alignment, modifier := classifySharp(signal, models.SideHome, 15, 25, 35)
	if alignment != models.SharpNeutral || modifier != 1.0 {
		t.Errorf("got %v/%v, want neutral/1.0 under college thresholds", alignment, modifier)
	}
}

func TestShiftConfidence(t *testing.T) {
	tests := []struct {
		confidence models.Confidence
		alignment  models.SharpAlignment
		want       models.Confidence
	}{
		{models.ConfidenceLow, models.SharpConfirms, models.ConfidenceMedium},
		{models.ConfidenceMedium, models.SharpConfirms, models.ConfidenceHigh},
		{models.ConfidenceHigh, models.SharpConfirms, models.ConfidenceHigh},
		{models.ConfidenceHigh, models.SharpContradicts, models.ConfidenceMedium},
		{models.ConfidenceLow, models.SharpContradicts, models.ConfidenceNone},
		{models.ConfidenceNone, models.SharpContradicts, models.ConfidenceNone},
		{models.ConfidenceMedium, models.SharpNeutral, models.ConfidenceMedium},
		{models.ConfidenceMedium, models.SharpUnknown, models.ConfidenceMedium},
	}

	for _, tt := range tests {
		if got := shiftConfidence(tt.confidence, tt.alignment); got != tt.want {
			t.Errorf("shiftConfidence(%v, %v) = %v, want %v", tt.confidence, tt.alignment, got, tt.want)
		}
	}
}

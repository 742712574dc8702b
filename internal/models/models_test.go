package models

import "testing"

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   string
		want VotePosition
	}{
		{"Yea", PositionYea},
		{"Yes", PositionYea},
		{"Aye", PositionYea},
		{"Nay", PositionNay},
		{"No", PositionNay},
		{"Present", PositionPresent},
		{"Not Voting", PositionNotVoting},
		{"", PositionNotVoting},
		{"Speaker", PositionNotVoting},
	}
	for _, tt := range tests {
		if got := ParsePosition(tt.in); got != tt.want {
			t.Errorf("ParsePosition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPositionCounted(t *testing.T) {
	if !PositionYea.Counted() || !PositionNay.Counted() {
		t.Error("Yea and Nay must count toward unity denominators")
	}
	if PositionPresent.Counted() || PositionNotVoting.Counted() {
		t.Error("Present and Not Voting must not count")
	}
}

func TestParseParty(t *testing.T) {
	tests := []struct {
		in   string
		want Party
	}{
		{"D", PartyDemocratic},
		{"Democrat", PartyDemocratic},
		{"R", PartyRepublican},
		{"I", PartyIndependent},
		{"ID", PartyIndependent},
		{"", PartyUnknown},
		{"Libertarian", Party("Libertarian")},
	}
	for _, tt := range tests {
		if got := ParseParty(tt.in); got != tt.want {
			t.Errorf("ParseParty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseChamber(t *testing.T) {
	tests := []struct {
		in   string
		want Chamber
	}{
		{"House of Representatives", ChamberHouse},
		{"house", ChamberHouse},
		{"Senate", ChamberSenate},
		{" senate ", ChamberSenate},
		{"Joint", Chamber("joint")},
	}
	for _, tt := range tests {
		if got := ParseChamber(tt.in); got != tt.want {
			t.Errorf("ParseChamber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEffectiveBillID(t *testing.T) {
	rc := RollCall{VoteID: "h119-42", BillID: "hr-1234"}
	if got := rc.EffectiveBillID(); got != "hr-1234" {
		t.Errorf("EffectiveBillID() = %q, want linked bill id", got)
	}
	rc.BillID = ""
	if got := rc.EffectiveBillID(); got != "h119-42" {
		t.Errorf("EffectiveBillID() = %q, want synthetic roll-call id", got)
	}
}

func TestTermFor(t *testing.T) {
	m := MemberRecord{Terms: []Term{
		{Congress: 118, Chamber: ChamberHouse},
		{Congress: 119, Chamber: ChamberSenate},
	}}
	term, ok := m.TermFor(119)
	if !ok || term.Chamber != ChamberSenate {
		t.Errorf("TermFor(119) = %+v, %v", term, ok)
	}
	if _, ok := m.TermFor(117); ok {
		t.Error("TermFor(117) should report no matching term")
	}
}

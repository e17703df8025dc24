package domain

import "testing"

func TestParseSpellClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   SpellClass
		wantOK bool
	}{
		{"wizard", SpellClassWizard, true},
		{"Mage", SpellClassWizard, true},
		{"Magic-User", SpellClassWizard, true},
		{"Wizard Spells", SpellClassWizard, true},
		{"priest", SpellClassPriest, true},
		{"Cleric", SpellClassPriest, true},
		{"druid", SpellClassPriest, true},
		{"psionicist", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseSpellClass(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseSpellClass(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSpellClass_IsValid(t *testing.T) {
	t.Parallel()

	if !SpellClassWizard.IsValid() || !SpellClassPriest.IsValid() {
		t.Error("known classes must be valid")
	}
	if SpellClass("mage").IsValid() || SpellClass("").IsValid() {
		t.Error("unparsed labels must not be valid")
	}
}

func TestParseKitClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  KitClass
	}{
		{"Fighter", KitClassFighter},
		{"fighter kit", KitClassFighter},
		{"Mage", KitClassWizard},
		{"Thief", KitClassThief},
		{"BARD", KitClassBard},
		{"Any", KitClassUniversal},
		{"", KitClassUniversal},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := ParseKitClass(tt.input); got != tt.want {
				t.Errorf("ParseKitClass(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseProficiencyGroup(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"General", "priest", "Rogue", "WARRIOR", "wizard"} {
		if _, ok := ParseProficiencyGroup(in); !ok {
			t.Errorf("ParseProficiencyGroup(%q) not ok", in)
		}
	}
	if g, ok := ParseProficiencyGroup("psionicist"); ok {
		t.Errorf("ParseProficiencyGroup(psionicist) = %q, want not ok", g)
	}
}

func TestParseWeaponSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   WeaponSize
		wantOK bool
	}{
		{"S", WeaponSizeSmall, true},
		{"medium", WeaponSizeMedium, true},
		{" L ", WeaponSizeLarge, true},
		{"Huge", WeaponSizeHuge, true},
		{"g", WeaponSizeGargantuan, true},
		{"T", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseWeaponSize(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseWeaponSize(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRetryOrder_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		order RetryOrder
		want  bool
	}{
		{RetryOrderOldest, true},
		{RetryOrderNewest, true},
		{RetryOrder("random"), false},
		{RetryOrder(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			t.Parallel()
			if got := tt.order.IsValid(); got != tt.want {
				t.Errorf("RetryOrder(%q).IsValid() = %v, want %v", tt.order, got, tt.want)
			}
		})
	}
}

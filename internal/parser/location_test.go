package parser

import "testing"

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		desc     string
		city     string
		province string
	}{
		// Whitespace-separated province code.
		{"TIM HORTONS #123 OTTAWA ON", "Ottawa", "ON"},
		{"SHOPPERS DRUG MART MONTREAL QC", "Montreal", "QC"},
		// Two-word city kept whole by the joiner rule.
		{"CANADIAN TIRE NIAGARA FALLS ON", "Niagara Falls", "ON"},
		{"GAS BAR STONEY CREEK ON", "Stoney Creek", "ON"},
		// City glued to the province code.
		{"UBER.COM TORONTOON", "Toronto", "ON"},
		{"NOFRILLS TORONTOON", "Toronto", "ON"},
		// Hyphen-glued code with a truncated city fragment.
		{"IC* INSTACART MID-HNS", "Halifax", "NS"},
		{"MID-HNS", "Halifax", "NS"},
		// Domain tails suppress last-token guessing but the gazetteer scan
		// still fires when a known city is present.
		{"GOOGLE *YOUTUBE G.CO/HELPPAY ON", "", "ON"},
		// Brand token next to the code is stopped; province survives alone.
		{"AMZN MKTP CA WWW.AMAZON.CA ON", "", "ON"},
		// No province at all.
		{"WWW.AMAZON.CA", "", ""},
		{"PAYMENT THANK YOU/PAIEMENT MERCI", "", ""},
		{"", "", ""},
		// Trailing brand word that is not a city.
		{"NETFLIX.COM 866-716-0414 ON", "", "ON"},
	}

	for _, tt := range tests {
		got := ExtractLocation(tt.desc)
		if got.City != tt.city || got.Province != tt.province {
			t.Errorf("ExtractLocation(%q): got city=%q province=%q, want city=%q province=%q",
				tt.desc, got.City, got.Province, tt.city, tt.province)
		}
		if tt.city != "" && tt.province != "" {
			want := tt.city + " " + tt.province
			if got.Location != want {
				t.Errorf("ExtractLocation(%q): location got %q, want %q", tt.desc, got.Location, want)
			}
		} else if got.Location != "" {
			t.Errorf("ExtractLocation(%q): location got %q, want empty", tt.desc, got.Location)
		}
	}
}

func TestDetectProvinceModes(t *testing.T) {
	tests := []struct {
		in   string
		mode locationMode
		prov string
	}{
		{"TIM HORTONS OTTAWA ON", modeSpace, "ON"},
		{"IC* INSTACART MID-HNS", modeHyphen, "NS"},
		{"GOOGLE *YOUTUBE G.CO/HELPPAY ON", modeSpace, "ON"},
		// Domain hint wins over the glued-city scan when both could apply.
		{"UBER.COM TORONTOON", modeDomain, "ON"},
		{"NOFRILLS TORONTOON", modeGluedCity, "ON"},
	}

	for _, tt := range tests {
		m := detectProvince(tt.in)
		if !m.matched {
			t.Errorf("detectProvince(%q): no match", tt.in)
			continue
		}
		if m.mode != tt.mode || m.province != tt.prov {
			t.Errorf("detectProvince(%q): got mode=%d province=%q, want mode=%d province=%q",
				tt.in, m.mode, m.province, tt.mode, tt.prov)
		}
	}

	if m := detectProvince("CARD PAYMENT"); m.matched {
		t.Errorf("detectProvince(%q): unexpected match %+v", "CARD PAYMENT", m)
	}
	// "-PAYMENT" must not be read as a glued NT code.
	if m := detectProvince("PRE-PAYMENT"); m.matched {
		t.Errorf("detectProvince(%q): unexpected match %+v", "PRE-PAYMENT", m)
	}
}

func TestPickCityFromTokens(t *testing.T) {
	tests := []struct {
		toks []string
		want string
	}{
		{[]string{"TIM", "HORTONS", "OTTAWA"}, "OTTAWA"},
		{[]string{"CANADIAN", "TIRE", "NIAGARA", "FALLS"}, "NIAGARA FALLS"},
		{[]string{"WAL", "MART", "SUPERCENTER"}, ""},
		{[]string{"SHOP", "CO"}, ""},
		{[]string{}, ""},
		// Glued merchant+city repaired from the gazetteer.
		{[]string{"RESTAURBRAMPTON"}, "BRAMPTON"},
	}

	for _, tt := range tests {
		if got := pickCityFromTokens(tt.toks); got != tt.want {
			t.Errorf("pickCityFromTokens(%v): got %q, want %q", tt.toks, got, tt.want)
		}
	}
}

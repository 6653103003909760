package validation

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		symbol string
		ok     bool
	}{
		{"$8,000", 8000, "$", true},
		{"$8.5k", 8500, "$", true},
		{"£2M", 2000000, "£", true},
		{"€ 1,250.50", 1250.5, "€", true},
		{"$12,345/month", 12345, "$", true},
		{"$2.5 million", 2500000, "$", true},
		{"$1.2MM", 1200000, "$", true},
		{"$3 thousand", 3000, "$", true},
		{"$500 more", 500, "$", true},
		{"$23450", 23450, "$", true},
		{"8,000", 0, "", false},
		{"", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAmount(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseAmount(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && (got.Value != tt.want || got.Symbol != tt.symbol) {
				t.Errorf("ParseAmount(%q) = %+v, want %v %s", tt.in, got, tt.want, tt.symbol)
			}
		})
	}
}

func TestExtractAmounts_ListPunctuation(t *testing.T) {
	got := ExtractAmounts("Losses of $8,000, $4,000, and $2.5 million.")
	want := []string{"$8,000", "$4,000", "$2.5 million"}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %d amounts", got, len(want))
	}
	for i, a := range got {
		if a.Raw != want[i] {
			t.Errorf("amount %d Raw = %q, want %q", i, a.Raw, want[i])
		}
	}
}

func TestIsRound(t *testing.T) {
	tests := []struct {
		v    float64
		want bool
	}{
		{10000, true},
		{20000, true},
		{50000, true},
		{120000, true},
		{12345, false},
		{5000, false},
		{0, false},
	}
	for _, tt := range tests {
		if got := IsRound(tt.v, 10000); got != tt.want {
			t.Errorf("IsRound(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestGapCosts(t *testing.T) {
	text := "Intro $1 Gap #1 costs $4,000. Gap 2: $3,500 lost. Gap #3 ... about $2.5k monthly."
	costs, ok := GapCosts(text, 3)
	if !ok {
		t.Fatalf("GapCosts failed: %+v", costs)
	}
	want := []float64{4000, 3500, 2500}
	for i, c := range costs {
		if c.Value != want[i] {
			t.Errorf("gap %d = %v, want %v", i+1, c.Value, want[i])
		}
	}

	if _, ok := GapCosts("Gap #1 $10 Gap #2 $20", 3); ok {
		t.Error("expected failure when a section is missing")
	}
}

func TestGapCosts_SummaryLineBeforeSections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "heading elements",
			doc: `<nav>Gap 1 · Gap 2 · Gap 3</nav><section class="hero"><h1>Missing $23,450</h1></section>` +
				`<h2>Gap #1: Search</h2><p>Loss: $9,200</p>` +
				`<h2>Gap #2: Reviews</h2><p>Loss: $8,150</p>` +
				`<h2>Gap #3: Intake</h2><p>Loss: $6,100</p><h2>Next steps</h2><p>Call $99</p>`,
		},
		{
			name: "plain text",
			doc: "Gap 1 · Gap 2 · Gap 3. You are missing $23,450 a month. " +
				"Gap 1 costs $9,200. Gap 2 costs $8,150. Gap 3 costs $6,100.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			costs, ok := GapCosts(tt.doc, 3)
			if !ok {
				t.Fatalf("GapCosts failed: %+v", costs)
			}
			want := []float64{9200, 8150, 6100}
			for i, c := range costs {
				if c.Value != want[i] {
					t.Errorf("gap %d = %v, want %v", i+1, c.Value, want[i])
				}
			}
		})
	}
}

func TestSumMatches(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		parts []float64
		want  bool
	}{
		{"exact", 10000, []float64{5000, 3000, 2000}, true},
		{"within five percent", 10000, []float64{5000, 3000, 2400}, true},
		{"outside five percent", 10000, []float64{5000, 3000, 2600}, false},
		{"far under", 10000, []float64{1000, 1000, 1000}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := SumMatches(tt.total, tt.parts, 0.05); got != tt.want {
				t.Errorf("SumMatches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeroTotal(t *testing.T) {
	doc := `<p>$1</p><div id="hero-banner"><h1>Losing <b>$12,400</b></h1></div><p>$99</p>`
	got, ok := HeroTotal(doc)
	if !ok || got.Value != 12400 {
		t.Errorf("HeroTotal = %+v, %v", got, ok)
	}
	if _, ok := HeroTotal("<p>$5</p>"); ok {
		t.Error("expected no hero total without a hero element")
	}
}

func TestVisibleText(t *testing.T) {
	doc := `<html><head><style>p{color:red}</style><script>var a = undefined;</script></head>` +
		`<body><p>Doe &amp; Associates</p>   <p>in&nbsp;Austin</p></body></html>`
	got := VisibleText(doc)
	want := "Doe & Associates in Austin"
	if got != want {
		t.Errorf("VisibleText = %q, want %q", got, want)
	}
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		country string
		code    string
		symbol  string
	}{
		{"", "US", "$"},
		{"USA", "US", "$"},
		{"United Kingdom", "UK", "£"},
		{"gb", "UK", "£"},
		{"Australia", "AU", "$"},
		{"Germany", "GERMANY", ""},
	}
	for _, tt := range tests {
		p := ProfileFor(tt.country)
		if p.Code != tt.code || p.CurrencySymbol != tt.symbol {
			t.Errorf("ProfileFor(%q) = %s/%s, want %s/%s", tt.country, p.Code, p.CurrencySymbol, tt.code, tt.symbol)
		}
	}
}
